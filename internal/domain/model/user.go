package model

import "time"

// User represents a registered shop customer or staff member.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}

// Principal is the authenticated caller of a use case.
type Principal struct {
	UserID  int64
	IsStaff bool
}

// CanAccess reports whether the principal may read resources owned by ownerID.
func (p Principal) CanAccess(ownerID int64) bool {
	return p.IsStaff || p.UserID == ownerID
}

package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse returns the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

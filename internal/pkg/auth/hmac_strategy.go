package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

const defaultTokenTTL = 24 * time.Hour

var tokenEncoding = base64.RawURLEncoding

// HMACStrategy signs "<user>.<expires>" with HMAC-SHA256 and appends the signature
// as a third dot separated segment.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	s := &HMACStrategy{secret: []byte(secret), ttl: opts.TTL, now: opts.Now}
	if s.ttl <= 0 {
		s.ttl = defaultTokenTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	claims := strconv.FormatInt(userID, 10) + "." + strconv.FormatInt(s.now().Add(s.ttl).Unix(), 10)
	return claims + "." + s.sign(claims), nil
}

func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	idx := strings.LastIndexByte(token, '.')
	if idx <= 0 {
		return 0, ErrInvalidToken
	}
	claims, sig := token[:idx], token[idx+1:]
	if !hmac.Equal([]byte(s.sign(claims)), []byte(sig)) {
		return 0, ErrInvalidToken
	}

	rawID, rawExp, ok := strings.Cut(claims, ".")
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	expires, err := strconv.ParseInt(rawExp, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if !s.now().Before(time.Unix(expires, 0)) {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *HMACStrategy) sign(claims string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(claims))
	return tokenEncoding.EncodeToString(mac.Sum(nil))
}

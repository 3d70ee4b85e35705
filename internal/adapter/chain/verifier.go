package chain

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrMalformedAddress   = errors.New("malformed wallet address")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrEmptyMessage       = errors.New("empty message")
)

var (
	addressPattern   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	signaturePattern = regexp.MustCompile(`^0x[0-9a-fA-F]{130}$`)
)

// PlaceholderVerifier accepts any well formed 65 byte signature. It does not
// recover the signer.
type PlaceholderVerifier struct{}

func (PlaceholderVerifier) Verify(ctx context.Context, address, message, signature string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !addressPattern.MatchString(address) {
		return ErrMalformedAddress
	}
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if !signaturePattern.MatchString(signature) {
		return ErrMalformedSignature
	}
	return nil
}


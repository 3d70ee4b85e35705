package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
)

// MaxQuantity is the largest line item quantity; it matches the INTEGER columns.
const MaxQuantity = math.MaxInt32

// ParseQuantity accepts a positive integer written as a JSON number or a numeric string.
func ParseQuantity(raw string) (int, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainErrors.Invalid("quantity", "must be an integer")
	}
	return n, checkQuantity(n)
}

func checkQuantity(n int) error {
	switch {
	case n <= 0:
		return domainErrors.Invalid("quantity", "must be greater than 0")
	case n > MaxQuantity:
		return domainErrors.Invalid("quantity", fmt.Sprintf("must be at most %d", MaxQuantity))
	}
	return nil
}

var hexAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateWalletAddress checks the 0x-prefixed 20 byte hex form of an account address.
func ValidateWalletAddress(address string) bool {
	return hexAddress.MatchString(address)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domainErrors.Invalid(field, "is required")
	}
	return nil
}

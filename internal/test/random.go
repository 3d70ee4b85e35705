package test

import (
	"math/rand/v2"
	"strings"
)

const (
	loginAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	passAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#%+-_"
	hexDigits     = "0123456789abcdef"
)

// RandomLogin returns a lowercase login starting with a letter.
func RandomLogin() string {
	return "u" + randomFrom(loginAlphabet, 6+rand.IntN(9))
}

// RandomPassword returns a password that always fits the bcrypt input limit.
func RandomPassword() string {
	return randomFrom(passAlphabet, 12+rand.IntN(21))
}

// RandomTxHash returns a 0x-prefixed 32-byte hex transaction hash.
func RandomTxHash() string {
	return "0x" + randomFrom(hexDigits, 64)
}

// RandomAddress returns a 0x-prefixed 20-byte hex wallet address.
func RandomAddress() string {
	return "0x" + randomFrom(hexDigits, 40)
}

func randomFrom(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

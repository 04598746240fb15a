// Package accesscode produces the short human-shareable codes that gate
// private parties. Codes are 6 characters drawn from [A-Z0-9], giving a
// space of 36^6 (~2.2e9); global uniqueness is enforced by the database
// index with retry at assignment time, not here.
package accesscode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Length of every generated code.
	Length = 6

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generate returns a new random code. Each character is drawn uniformly
// over the alphabet.
func Generate() (string, error) {
	buf := make([]byte, Length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Valid reports whether s has the shape of an access code.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

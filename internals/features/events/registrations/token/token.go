// Package token issues registration bearer tokens.
//
// A token is 8 bytes from crypto/rand rendered as 16 lowercase hex characters.
// Nothing is truncated after encoding, so every character carries entropy
// (64 bits). The unique index on registrations.registration_token backs it up.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const (
	byteLen = 8
	Length  = byteLen * 2
)

func New() (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "read random token")
	}
	return hex.EncodeToString(b), nil
}

// Normalize trims and lowercases a user supplied token.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Valid reports whether s has the shape of an issued token.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

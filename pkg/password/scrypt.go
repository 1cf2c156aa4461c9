// Package password derives and verifies salted scrypt password digests.
//
// Stored forms are "<hex digest>.<hex salt>". Verification never returns an
// error: anything that does not parse simply fails to match.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. Changing any of them invalidates every stored form.
const (
	costN   = 16384
	costR   = 8
	costP   = 1
	keyLen  = 64
	saltLen = 16
)

const separator = "."

// Hash returns a new stored form for secret using a fresh random salt.
func Hash(secret string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	digest, err := derive(secret, salt)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(digest) + separator + hex.EncodeToString(salt), nil
}

// Verify reports whether secret matches stored. Comparison is constant-time.
func Verify(stored, secret string) bool {
	digest, salt, ok := split(stored)
	if !ok {
		return false
	}

	candidate, err := derive(secret, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(digest, candidate) == 1
}

// Dummy returns a well-formed stored form that matches no real secret.
// Callers verify against it when no account exists so that a miss costs
// the same as a wrong password.
func Dummy() string {
	return strings.Repeat("00", keyLen) + separator + strings.Repeat("00", saltLen)
}

func derive(secret string, salt []byte) ([]byte, error) {
	digest, err := scrypt.Key([]byte(secret), salt, costN, costR, costP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	return digest, nil
}

func split(stored string) (digest, salt []byte, ok bool) {
	parts := strings.Split(stored, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, false
	}

	digest, err := hex.DecodeString(parts[0])
	if err != nil || len(digest) != keyLen {
		return nil, nil, false
	}

	salt, err = hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, false
	}

	return digest, salt, true
}

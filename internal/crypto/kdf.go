package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// DerivePasswordKey derives a 256-bit AES key from a password and salt using
// PBKDF2-HMAC-SHA-256 with the fixed PBKDF2Iterations work factor.
//
// The iteration count is part of the on-disk record format: changing it
// invalidates every existing encrypted private key record, so bumps require
// a record version migration.
func DerivePasswordKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, AESKeySize, sha256.New)
}

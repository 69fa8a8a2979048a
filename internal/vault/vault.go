// Package vault protects the user's long-term ML-KEM secret key at rest.
//
// A key is wrapped under a password-derived AES-256 key (PBKDF2-HMAC-SHA-256)
// with AES-256-GCM. The persisted record carries the KDF salt and the AEAD
// nonce alongside the ciphertext; both are freshly random on every wrap.
// Unwrapping with the wrong password fails the AEAD tag check and surfaces as
// ErrAuthenticationFailed, indistinguishable from a corrupted record.
package vault

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/quantumchat/client-go/internal/crypto"
)

const (
	// SaltSize is the size of the PBKDF2 salt in bytes.
	SaltSize = crypto.PBKDF2SaltSize
	// NonceSize is the size of the AES-GCM nonce in bytes.
	NonceSize = crypto.AESNonceSize
)

var (
	// ErrAuthenticationFailed is returned when the record cannot be opened
	// with the given password. A wrong password and a tampered or corrupted
	// record are deliberately collapsed into this one error so callers leak
	// nothing about which it was.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidRecord is returned when a persisted record is structurally
	// malformed (too short to contain salt, nonce, and a tagged ciphertext).
	ErrInvalidRecord = errors.New("invalid encrypted key record")
)

// Record is the persisted form of a password-protected secret key.
type Record struct {
	// Salt is the PBKDF2 salt, unique per wrap.
	Salt []byte
	// Nonce is the AES-GCM nonce, unique per wrap.
	Nonce []byte
	// Ciphertext is the AES-256-GCM ciphertext including the tag.
	Ciphertext []byte
}

// Wrap encrypts secretKey under a key derived from password. Every call
// generates a fresh salt and nonce; wrapping the same key twice never reuses
// either.
func Wrap(password string, secretKey []byte) (*Record, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	key := crypto.DerivePasswordKey(password, salt)
	defer crypto.Zero(key)

	blob, err := crypto.EncryptAES(key, secretKey, nonce)
	if err != nil {
		return nil, fmt.Errorf("encrypt secret key: %w", err)
	}

	return &Record{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: blob[NonceSize:],
	}, nil
}

// Unwrap decrypts a record with the given password and returns the secret
// key. The caller owns the returned bytes and should Zero them when the
// session ends.
func Unwrap(password string, rec *Record) ([]byte, error) {
	if rec == nil || len(rec.Salt) != SaltSize || len(rec.Nonce) != NonceSize ||
		len(rec.Ciphertext) < crypto.AESTagSize {
		return nil, ErrInvalidRecord
	}

	key := crypto.DerivePasswordKey(password, rec.Salt)
	defer crypto.Zero(key)

	blob := make([]byte, 0, NonceSize+len(rec.Ciphertext))
	blob = append(blob, rec.Nonce...)
	blob = append(blob, rec.Ciphertext...)

	secretKey, err := crypto.DecryptAES(key, blob)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return secretKey, nil
}

// Encode serializes a record as salt || nonce || ciphertext, the blob format
// stored by the backend.
func (r *Record) Encode() []byte {
	out := make([]byte, 0, len(r.Salt)+len(r.Nonce)+len(r.Ciphertext))
	out = append(out, r.Salt...)
	out = append(out, r.Nonce...)
	return append(out, r.Ciphertext...)
}

// DecodeRecord parses a salt || nonce || ciphertext blob.
func DecodeRecord(blob []byte) (*Record, error) {
	if len(blob) < SaltSize+NonceSize+crypto.AESTagSize {
		return nil, ErrInvalidRecord
	}

	return &Record{
		Salt:       blob[:SaltSize],
		Nonce:      blob[SaltSize : SaltSize+NonceSize],
		Ciphertext: blob[SaltSize+NonceSize:],
	}, nil
}

// UnwrapLegacy opens a record in the pre-nonce salt || ciphertext layout,
// which implicitly used an all-zero nonce. Read path only: records written by
// this package always carry an explicit random nonce, because a fixed nonce
// reused across wraps voids AES-GCM's confidentiality guarantees.
func UnwrapLegacy(password string, blob []byte) ([]byte, error) {
	if len(blob) < SaltSize+crypto.AESTagSize {
		return nil, ErrInvalidRecord
	}

	rec := &Record{
		Salt:       blob[:SaltSize],
		Nonce:      make([]byte, NonceSize),
		Ciphertext: blob[SaltSize:],
	}

	return Unwrap(password, rec)
}

// Package crypto provides the cryptographic primitives for the QuantumChat
// client. It implements post-quantum key encapsulation, password-based key
// protection, and authenticated encryption of room messages.
//
// # Algorithm Suite
//
// The package uses the following cryptographic algorithms:
//
//   - ML-KEM-768 (NIST FIPS 203): Post-quantum key encapsulation mechanism
//     for distributing room keys to members. Provides 192-bit classical and
//     quantum security levels.
//
//   - AES-256-GCM: Authenticated encryption with associated data (AEAD)
//     for message content, sealed room keys, and the encrypted private key
//     record. Provides confidentiality and integrity.
//
//   - HKDF-SHA-512 (RFC 5869): Key derivation function for deriving AES keys
//     from KEM shared secrets with domain separation.
//
//   - PBKDF2-HMAC-SHA-256 (RFC 8018): Password-based key derivation for
//     protecting the long-term ML-KEM secret key at rest.
//
// # Room Key Distribution
//
// A KEM encapsulation produces a fresh shared secret that the encapsulating
// party cannot choose, so a room key shared by all members cannot be derived
// from independent encapsulations alone. Room keys are therefore distributed
// as sealed blobs: [SealRoomKey] encapsulates to the recipient's public key,
// derives a wrapping key from the shared secret with HKDF, and AES-GCM
// encrypts the room key under it. [OpenRoomKey] reverses the process with the
// recipient's secret key. Every member opens a distinct blob to the same
// 32-byte room key.
//
// # Critical Security Notes
//
// AES-GCM nonces MUST be unique for each encryption with the same key. Nonce
// reuse completely breaks the security of AES-GCM, allowing attackers to
// recover the authentication key and forge messages. All encryption paths in
// this package and its callers draw fresh 96-bit nonces from crypto/rand.
//
// Keep secret keys secure. They must never be logged, transmitted in
// plaintext, or included in error messages. Use [Zero] to wipe key material
// that is no longer needed.
package crypto

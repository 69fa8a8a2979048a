package crypto

import "errors"

var (
	// ErrInvalidSecretKeySize is returned when the secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidCiphertextSize is returned when the KEM ciphertext size is invalid.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidSealedKeySize is returned when a sealed room key blob has the
	// wrong length.
	ErrInvalidSealedKeySize = errors.New("invalid sealed room key size")

	// ErrInvalidRoomKeySize is returned when a room key is not RoomKeySize bytes.
	ErrInvalidRoomKeySize = errors.New("invalid room key size")

	// ErrDecryptionFailed is returned when AEAD decryption fails. Wrong keys
	// and tampered ciphertexts are deliberately indistinguishable.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")
)

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// SealRoomKey encrypts a room key to the holder of peerPublicKey.
//
// The sealing process:
//  1. ML-KEM-768 encapsulation to the peer's public key
//  2. HKDF-SHA-512 derivation of a wrapping key from the shared secret
//  3. AES-256-GCM encryption of the room key under the wrapping key
//
// Returns: kemCiphertext (1088 bytes) || nonce (12 bytes) || wrapped key || tag.
// Each call draws fresh encapsulation randomness and a fresh nonce, so sealing
// the same room key to the same peer twice yields unrelated blobs.
func SealRoomKey(peerPublicKey, roomKey []byte) ([]byte, error) {
	if len(roomKey) != RoomKeySize {
		return nil, ErrInvalidRoomKeySize
	}

	kemCiphertext, sharedSecret, err := Encapsulate(peerPublicKey)
	if err != nil {
		return nil, fmt.Errorf("encapsulate: %w", err)
	}
	defer Zero(sharedSecret)

	wrapKey, err := deriveWrapKey(sharedSecret, kemCiphertext)
	if err != nil {
		return nil, fmt.Errorf("derive wrap key: %w", err)
	}
	defer Zero(wrapKey)

	nonce := make([]byte, AESNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	wrapped, err := encryptAESGCM(wrapKey, nonce, kemCiphertext, roomKey)
	if err != nil {
		return nil, fmt.Errorf("wrap room key: %w", err)
	}

	sealed := make([]byte, 0, SealedRoomKeySize)
	sealed = append(sealed, kemCiphertext...)
	sealed = append(sealed, nonce...)
	return append(sealed, wrapped...), nil
}

// OpenRoomKey recovers a room key from a sealed blob using the recipient's
// keypair. It fails with ErrDecryptionFailed when the blob was sealed to a
// different keypair or has been tampered with; the two cases are deliberately
// indistinguishable.
func OpenRoomKey(keypair *Keypair, sealed []byte) ([]byte, error) {
	if len(sealed) != SealedRoomKeySize {
		return nil, ErrInvalidSealedKeySize
	}

	kemCiphertext := sealed[:MLKEMCiphertextSize]
	nonce := sealed[MLKEMCiphertextSize : MLKEMCiphertextSize+AESNonceSize]
	wrapped := sealed[MLKEMCiphertextSize+AESNonceSize:]

	sharedSecret, err := keypair.Decapsulate(kemCiphertext)
	if err != nil {
		return nil, fmt.Errorf("decapsulate: %w", err)
	}
	defer Zero(sharedSecret)

	wrapKey, err := deriveWrapKey(sharedSecret, kemCiphertext)
	if err != nil {
		return nil, fmt.Errorf("derive wrap key: %w", err)
	}
	defer Zero(wrapKey)

	return decryptAESGCM(wrapKey, nonce, kemCiphertext, wrapped)
}

// deriveWrapKey performs HKDF-SHA-512 key derivation for sealed room keys.
//
// The key derivation uses:
//   - IKM (input key material): the KEM shared secret
//   - Salt: SHA-256 hash of the KEM ciphertext
//   - Info: the RoomKeyContext domain-separation string
//
// Binding the salt to the KEM ciphertext ties the wrapping key to this exact
// encapsulation, so a blob spliced together from two entries cannot verify.
func deriveWrapKey(sharedSecret, kemCiphertext []byte) ([]byte, error) {
	saltHash := sha256.Sum256(kemCiphertext)
	return DeriveKey(sharedSecret, saltHash[:], []byte(RoomKeyContext), AESKeySize)
}

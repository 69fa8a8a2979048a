package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

// encryptAESGCM encrypts data using AES-256-GCM and returns only the
// ciphertext with the appended tag. The nonce is the caller's to carry.
func encryptAESGCM(key, nonce, aad, plaintext []byte) ([]byte, error) {
	if len(nonce) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AESNonceSize)
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aesGCM.Seal(nil, nonce, plaintext, aad), nil
}

// decryptAESGCM decrypts data using AES-256-GCM.
func decryptAESGCM(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	if len(nonce) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AESNonceSize)
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// EncryptAES encrypts data using AES-256-GCM.
// Returns: nonce (12 bytes) || ciphertext || tag (16 bytes)
func EncryptAES(key, plaintext, nonce []byte) ([]byte, error) {
	ciphertext, err := encryptAESGCM(key, nonce, nil, plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, AESNonceSize+len(ciphertext))
	out = append(out, nonce...)
	return append(out, ciphertext...), nil
}

// DecryptAES decrypts data produced by EncryptAES.
// The ciphertext format is: nonce (12 bytes) || ciphertext || tag (16 bytes)
func DecryptAES(key, ciphertext []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	if len(ciphertext) < AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	return decryptAESGCM(key, ciphertext[:AESNonceSize], nil, ciphertext[AESNonceSize:])
}

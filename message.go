package quantumchat

import (
	"time"

	"github.com/quantumchat/client-go/internal/crypto"
)

// EncryptedMessage is one AEAD-encrypted message. The nonce travels with the
// ciphertext and is unique per encryption; the ciphertext includes the GCM
// authentication tag.
type EncryptedMessage struct {
	// Nonce is the 12-byte AES-GCM nonce.
	Nonce []byte
	// Ciphertext is the AES-256-GCM ciphertext including the tag.
	Ciphertext []byte
}

// Bytes returns the wire format: nonce (12 bytes) || ciphertext || tag.
func (m *EncryptedMessage) Bytes() []byte {
	out := make([]byte, 0, len(m.Nonce)+len(m.Ciphertext))
	out = append(out, m.Nonce...)
	return append(out, m.Ciphertext...)
}

// Encode returns the wire format as URL-safe base64, the representation
// stored by the message service.
func (m *EncryptedMessage) Encode() string {
	return crypto.ToBase64URL(m.Bytes())
}

// ParseEncryptedMessage splits a nonce || ciphertext wire blob.
func ParseEncryptedMessage(blob []byte) (*EncryptedMessage, error) {
	if len(blob) < crypto.AESNonceSize+crypto.AESTagSize {
		return nil, ErrInvalidMessage
	}

	return &EncryptedMessage{
		Nonce:      blob[:crypto.AESNonceSize],
		Ciphertext: blob[crypto.AESNonceSize:],
	}, nil
}

// DecodeEncryptedMessage parses the base64 wire representation.
func DecodeEncryptedMessage(s string) (*EncryptedMessage, error) {
	blob, err := crypto.DecodeBase64(s)
	if err != nil {
		return nil, ErrInvalidMessage
	}
	return ParseEncryptedMessage(blob)
}

// Room is a chat room the session is a member of.
type Room struct {
	ID   int64
	Name string
}

// RoomMessage is one message from a room's history after decryption.
// Err is set instead of Plaintext when the message did not authenticate under
// the current room key; that is expected for history written before a key
// rotation and does not fail the surrounding fetch.
type RoomMessage struct {
	ID        int64
	RoomID    int64
	SenderID  int64
	SentAt    time.Time
	Plaintext []byte
	Err       error
}

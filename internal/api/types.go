package api

import "time"

// RegisterRequest represents the POST /api/auth/register request.
// EncryptedPrivateKey is the base64url-encoded password-wrapped record;
// the server never sees the plaintext secret key.
type RegisterRequest struct {
	Username            string `json:"username"`
	Email               string `json:"email,omitempty"`
	Password            string `json:"password"`
	KemPublicKey        string `json:"kemPublicKey"`
	EncryptedPrivateKey string `json:"encryptedPrivateKey"`
}

// RegisterResponse represents the POST /api/auth/register response.
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginRequest represents the POST /api/auth/login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the POST /api/auth/login response.
type LoginResponse struct {
	Token               string `json:"token"`
	UserID              int64  `json:"userId"`
	KemPublicKey        string `json:"kemPublicKey"`
	EncryptedPrivateKey string `json:"encryptedPrivateKey"`
}

// UserProfile represents a GET /api/users/{username} response.
type UserProfile struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	KemPublicKey string `json:"kemPublicKey"`
}

// Room represents a chat room.
type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateRoomRequest represents the POST /api/rooms request.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// DistributionEntry represents a GET /api/rooms/{id}/key response: the
// caller's sealed room key blob, base64-encoded. The server stores one entry
// per (room, member) pair and cannot open any of them.
type DistributionEntry struct {
	RoomID    int64  `json:"roomId"`
	SealedKey string `json:"sealedKey"`
}

// PutDistributionEntryRequest represents the PUT /api/rooms/{id}/keys/{username} request.
type PutDistributionEntryRequest struct {
	SealedKey string `json:"sealedKey"`
}

// Message represents a stored encrypted message. Payload is the encoded
// EncryptedMessage wire format; the server treats it as an opaque string.
type Message struct {
	ID       int64     `json:"id"`
	RoomID   int64     `json:"roomId"`
	SenderID int64     `json:"senderId"`
	Payload  string    `json:"payload"`
	SentAt   time.Time `json:"sentAt"`
}

// SendMessageRequest represents the POST /api/rooms/{id}/messages request.
type SendMessageRequest struct {
	Payload string `json:"payload"`
}

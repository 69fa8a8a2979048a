package quantumchat

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/quantumchat/client-go/internal/api"
	"github.com/quantumchat/client-go/internal/crypto"
	"github.com/quantumchat/client-go/internal/roomkey"
)

// Session is one unlocked user identity. It exclusively owns the plaintext
// ML-KEM secret key and the cached room keys; both exist only between Login
// and Lock. A Session is safe for concurrent use.
type Session struct {
	apiClient *api.Client
	userID    int64
	username  string

	mu      sync.RWMutex
	keypair *crypto.Keypair
	locked  bool

	roomKeys *roomkey.Cache
	done     chan struct{}
}

// Username returns the session's username.
func (s *Session) Username() string {
	return s.username
}

// UserID returns the session's user id.
func (s *Session) UserID() int64 {
	return s.userID
}

// PublicKeyB64 returns the session's KEM public key as URL-safe base64, or
// an empty string when locked.
func (s *Session) PublicKeyB64() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.keypair == nil {
		return ""
	}
	return s.keypair.PublicKeyB64
}

// Locked reports whether Lock has been called.
func (s *Session) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

// Lock ends the session: the private key is wiped, cached room keys are
// cleared, in-flight room key fetches are cancelled, and the API token is
// dropped. Subsequent cryptographic calls fail with ErrSessionLocked.
// Lock is idempotent.
func (s *Session) Lock() {
	s.mu.Lock()
	if s.locked {
		s.mu.Unlock()
		return
	}
	s.locked = true
	keypair := s.keypair
	s.keypair = nil
	close(s.done)
	s.mu.Unlock()

	s.roomKeys.Clear()
	if keypair != nil {
		crypto.Zero(keypair.SecretKey)
	}
	s.apiClient.SetToken("")
}

func (s *Session) snapshot() (*crypto.Keypair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.locked {
		return nil, ErrSessionLocked
	}
	return s.keypair, nil
}

// roomKey resolves a room's symmetric key through the session cache.
func (s *Session) roomKey(ctx context.Context, roomID int64) ([]byte, error) {
	if _, err := s.snapshot(); err != nil {
		return nil, err
	}
	return s.roomKeys.Get(ctx, roomID)
}

// fetchRoomKey is the cache's fetcher: it retrieves the caller's sealed
// distribution entry and opens it with the session's secret key. Locking the
// session cancels the fetch so no single-flight waiter blocks on a dead
// session and nothing partial is cached.
func (s *Session) fetchRoomKey(ctx context.Context, roomID int64) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	entry, err := s.apiClient.GetDistributionEntry(ctx, roomID)
	if err != nil {
		select {
		case <-s.done:
			return nil, ErrSessionLocked
		default:
		}
		return nil, wrapError(err)
	}

	sealed, err := crypto.DecodeBase64(entry.SealedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed distribution entry", ErrDecapsulationFailed)
	}

	keypair, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	// A failed open propagates; substituting random key material here would
	// silently break the room for this member.
	key, err := crypto.OpenRoomKey(keypair, sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecapsulationFailed, err)
	}

	return key, nil
}

// EncryptMessage encrypts a message for a room, resolving the room key on
// first use. Every call draws a fresh 96-bit nonce from crypto/rand; the
// returned message carries it alongside the ciphertext.
func (s *Session) EncryptMessage(ctx context.Context, roomID int64, plaintext []byte) (*EncryptedMessage, error) {
	key, err := s.roomKey(ctx, roomID)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, crypto.AESNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	blob, err := crypto.EncryptAES(key, plaintext, nonce)
	if err != nil {
		return nil, fmt.Errorf("encrypt message: %w", err)
	}

	return &EncryptedMessage{
		Nonce:      blob[:crypto.AESNonceSize],
		Ciphertext: blob[crypto.AESNonceSize:],
	}, nil
}

// DecryptMessage decrypts a room message. A failed tag check surfaces as
// ErrAuthenticationFailed: the message was tampered with, or the cached room
// key is stale after a rotation.
func (s *Session) DecryptMessage(ctx context.Context, roomID int64, msg *EncryptedMessage) ([]byte, error) {
	if msg == nil || len(msg.Nonce) != crypto.AESNonceSize || len(msg.Ciphertext) < crypto.AESTagSize {
		return nil, ErrInvalidMessage
	}

	key, err := s.roomKey(ctx, roomID)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.DecryptAES(key, msg.Bytes())
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// CreateRoom creates a room, mints its symmetric key, and stores the
// creator's own sealed distribution entry. The key never leaves the process
// unsealed.
func (s *Session) CreateRoom(ctx context.Context, name string) (*Room, error) {
	keypair, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	room, err := s.apiClient.CreateRoom(ctx, name)
	if err != nil {
		return nil, wrapError(err)
	}

	key := make([]byte, crypto.RoomKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate room key: %w", err)
	}

	sealed, err := crypto.SealRoomKey(keypair.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("seal room key: %w", err)
	}

	if err := s.apiClient.PutDistributionEntry(ctx, room.ID, s.username, crypto.ToBase64URL(sealed)); err != nil {
		return nil, wrapError(err)
	}

	s.roomKeys.Put(room.ID, key)

	return &Room{ID: room.ID, Name: room.Name}, nil
}

// JoinRoom adds the session's user to a room's roster. The room key arrives
// separately when an existing member admits the user with AdmitMember.
func (s *Session) JoinRoom(ctx context.Context, roomID int64) error {
	return wrapError(s.apiClient.JoinRoom(ctx, roomID))
}

// LeaveRoom removes the session's user from a room and drops the cached key.
func (s *Session) LeaveRoom(ctx context.Context, roomID int64) error {
	if err := s.apiClient.LeaveRoom(ctx, roomID); err != nil {
		return wrapError(err)
	}
	s.roomKeys.Invalidate(roomID)
	return nil
}

// Rooms lists the rooms the session's user is a member of.
func (s *Session) Rooms(ctx context.Context) ([]Room, error) {
	rooms, err := s.apiClient.ListRooms(ctx)
	if err != nil {
		return nil, wrapError(err)
	}

	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, Room{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// AdmitMember seals the room key to another member's public key and stores
// their distribution entry. The caller must already hold the room key.
func (s *Session) AdmitMember(ctx context.Context, roomID int64, username string) error {
	key, err := s.roomKey(ctx, roomID)
	if err != nil {
		return err
	}

	profile, err := s.apiClient.GetUser(ctx, username)
	if err != nil {
		return wrapError(err)
	}

	peerKey, err := crypto.DecodeBase64(profile.KemPublicKey)
	if err != nil {
		return fmt.Errorf("decode public key for %q: %w", username, err)
	}

	sealed, err := crypto.SealRoomKey(peerKey, key)
	if err != nil {
		return fmt.Errorf("seal room key: %w", err)
	}

	return wrapError(s.apiClient.PutDistributionEntry(ctx, roomID, username, crypto.ToBase64URL(sealed)))
}

// RotateRoomKey mints a fresh room key and stores new sealed entries for the
// given members. The session's own entry is always written. Members not
// listed keep only the old key and lose access to new messages; their cached
// copies fail authentication, which is how stale membership surfaces.
func (s *Session) RotateRoomKey(ctx context.Context, roomID int64, members []string) error {
	keypair, err := s.snapshot()
	if err != nil {
		return err
	}

	key := make([]byte, crypto.RoomKeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("generate room key: %w", err)
	}

	sealed, err := crypto.SealRoomKey(keypair.PublicKey, key)
	if err != nil {
		return fmt.Errorf("seal room key: %w", err)
	}
	if err := s.apiClient.PutDistributionEntry(ctx, roomID, s.username, crypto.ToBase64URL(sealed)); err != nil {
		return wrapError(err)
	}

	for _, member := range members {
		if member == s.username {
			continue
		}

		profile, err := s.apiClient.GetUser(ctx, member)
		if err != nil {
			return wrapError(err)
		}

		peerKey, err := crypto.DecodeBase64(profile.KemPublicKey)
		if err != nil {
			return fmt.Errorf("decode public key for %q: %w", member, err)
		}

		sealed, err := crypto.SealRoomKey(peerKey, key)
		if err != nil {
			return fmt.Errorf("seal room key: %w", err)
		}

		if err := s.apiClient.PutDistributionEntry(ctx, roomID, member, crypto.ToBase64URL(sealed)); err != nil {
			return wrapError(err)
		}
	}

	s.roomKeys.Invalidate(roomID)
	s.roomKeys.Put(roomID, key)
	return nil
}

// InvalidateRoomKey drops the cached key for a room so the next use fetches
// the current distribution entry. Call after being told the room key rotated.
func (s *Session) InvalidateRoomKey(roomID int64) {
	s.roomKeys.Invalidate(roomID)
}

// SendMessage encrypts a message and stores it in the room.
func (s *Session) SendMessage(ctx context.Context, roomID int64, plaintext []byte) (*RoomMessage, error) {
	msg, err := s.EncryptMessage(ctx, roomID, plaintext)
	if err != nil {
		return nil, err
	}

	stored, err := s.apiClient.SendMessage(ctx, roomID, msg.Encode())
	if err != nil {
		return nil, wrapError(err)
	}

	return &RoomMessage{
		ID:        stored.ID,
		RoomID:    stored.RoomID,
		SenderID:  stored.SenderID,
		SentAt:    stored.SentAt,
		Plaintext: plaintext,
	}, nil
}

// Messages fetches a room's history and decrypts each entry with the current
// room key. A message that fails authentication is returned with Err set
// rather than failing the batch; that is the expected shape of history
// written under a rotated-out key.
func (s *Session) Messages(ctx context.Context, roomID int64) ([]RoomMessage, error) {
	stored, err := s.apiClient.GetMessages(ctx, roomID)
	if err != nil {
		return nil, wrapError(err)
	}

	key, err := s.roomKey(ctx, roomID)
	if err != nil {
		return nil, err
	}

	out := make([]RoomMessage, 0, len(stored))
	for _, m := range stored {
		rm := RoomMessage{
			ID:       m.ID,
			RoomID:   m.RoomID,
			SenderID: m.SenderID,
			SentAt:   m.SentAt,
		}

		msg, err := DecodeEncryptedMessage(m.Payload)
		if err != nil {
			rm.Err = err
			out = append(out, rm)
			continue
		}

		plaintext, err := crypto.DecryptAES(key, msg.Bytes())
		if err != nil {
			rm.Err = ErrAuthenticationFailed
		} else {
			rm.Plaintext = plaintext
		}
		out = append(out, rm)
	}

	return out, nil
}

package quantumchat

import (
	"errors"
	"fmt"

	"github.com/quantumchat/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrAuthenticationFailed is returned when an AEAD tag check fails:
	// wrong password on unlock, or a tampered/stale ciphertext on message
	// decryption. The causes are deliberately indistinguishable.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrSessionLocked is returned when a cryptographic operation is
	// attempted on a locked session.
	ErrSessionLocked = errors.New("session is locked")

	// ErrDecapsulationFailed is returned when a room key distribution entry
	// cannot be opened with this session's private key. Unlike a stale
	// message key this is not expected in normal operation; it signals a
	// protocol mismatch or tampering.
	ErrDecapsulationFailed = errors.New("room key decapsulation failed")

	// ErrUnauthorized is returned when credentials or the session token are
	// invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired credentials")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoomNotFound is returned when a room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrDistributionNotFound is returned when no room key has been
	// distributed to this user, typically because they have not been
	// admitted to the room yet. Retryable after a membership change.
	ErrDistributionNotFound = errors.New("room key distribution entry not found")

	// ErrNotRoomMember is returned when the user is not a member of the room.
	ErrNotRoomMember = errors.New("not a room member")

	// ErrAlreadyMember is returned when the user already belongs to the room.
	ErrAlreadyMember = errors.New("already a room member")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidMessage is returned when an encrypted message blob is too
	// short to contain a nonce and a tagged ciphertext.
	ErrInvalidMessage = errors.New("invalid encrypted message")
)

// QuantumChatError is implemented by all SDK errors.
type QuantumChatError interface {
	error
	QuantumChatError() // marker method
}

// APIError represents an HTTP error from the QuantumChat API.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string

	resource api.ResourceType
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// QuantumChatError implements the QuantumChatError interface.
func (e *APIError) QuantumChatError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 403:
		return target == ErrNotRoomMember
	case 404:
		switch e.resource {
		case api.ResourceUser:
			return target == ErrUserNotFound
		case api.ResourceRoom:
			return target == ErrRoomNotFound
		case api.ResourceDistribution:
			return target == ErrDistributionNotFound
		default:
			return target == ErrUserNotFound || target == ErrRoomNotFound ||
				target == ErrDistributionNotFound
		}
	case 409:
		return target == ErrAlreadyMember
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a network-level failure. Transient; callers may
// retry with backoff. The SDK does not retry resolved room keys internally.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// QuantumChatError implements the QuantumChatError interface.
func (e *NetworkError) QuantumChatError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
			resource:   apiErr.ResourceType,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}

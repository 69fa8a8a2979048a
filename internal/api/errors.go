package api

import (
	"errors"
	"fmt"
)

// Common API errors that can be checked with errors.Is.
var (
	// ErrUnauthorized indicates the credentials or token are invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired credentials")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoomNotFound indicates the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrDistributionNotFound indicates no room key distribution entry exists
	// for this user, typically because the user is not a room member or has
	// not been admitted yet.
	ErrDistributionNotFound = errors.New("room key distribution entry not found")
	// ErrNotRoomMember indicates the user is not a member of the room.
	ErrNotRoomMember = errors.New("not a room member")
	// ErrAlreadyMember indicates the user already belongs to the room.
	ErrAlreadyMember = errors.New("already a room member")
	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ResourceType indicates which type of resource an error relates to.
type ResourceType string

const (
	// ResourceUnknown indicates the resource type is not specified.
	ResourceUnknown ResourceType = ""
	// ResourceUser indicates the error relates to a user profile.
	ResourceUser ResourceType = "user"
	// ResourceRoom indicates the error relates to a room.
	ResourceRoom ResourceType = "room"
	// ResourceDistribution indicates the error relates to a key distribution entry.
	ResourceDistribution ResourceType = "distribution"
)

// APIError represents an HTTP error from the QuantumChat API.
type APIError struct {
	StatusCode   int
	Message      string
	RequestID    string
	ResourceType ResourceType
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

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 403:
		return target == ErrNotRoomMember
	case 404:
		// Use ResourceType for precise error matching
		switch e.ResourceType {
		case ResourceUser:
			return target == ErrUserNotFound
		case ResourceRoom:
			return target == ErrRoomNotFound
		case ResourceDistribution:
			return target == ErrDistributionNotFound
		default:
			// Fallback: match any not-found sentinel for unknown resource type
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

// WithResourceType returns a copy of the error with the resource type set.
// If the error is not an *APIError, it is returned unchanged.
func WithResourceType(err error, rt ResourceType) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:   apiErr.StatusCode,
			Message:      apiErr.Message,
			RequestID:    apiErr.RequestID,
			ResourceType: rt,
		}
	}
	return err
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

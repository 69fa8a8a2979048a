package api

import (
	"context"
	"fmt"
	"net/url"
)

// Register creates a new user account with its public key and password-wrapped
// private key record.
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	var result RegisterResponse
	if err := c.do(ctx, "POST", "/api/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates and returns the session token together with the user's
// stored key material. The token is remembered for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var result LoginResponse
	req := &LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, "POST", "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// GetUser retrieves a user's public profile, including their KEM public key.
func (c *Client) GetUser(ctx context.Context, username string) (*UserProfile, error) {
	var result UserProfile
	path := fmt.Sprintf("/api/users/%s", url.PathEscape(username))
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceUser)
	}
	return &result, nil
}

// CreateRoom creates a new chat room with the caller as its first member.
func (c *Client) CreateRoom(ctx context.Context, name string) (*Room, error) {
	var result Room
	if err := c.do(ctx, "POST", "/api/rooms", &CreateRoomRequest{Name: name}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListRooms returns the rooms the caller is a member of.
func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var result []Room
	if err := c.do(ctx, "GET", "/api/rooms", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// JoinRoom adds the caller to a room's member roster. Key distribution is a
// separate step performed by an existing member (see PutDistributionEntry).
func (c *Client) JoinRoom(ctx context.Context, roomID int64) error {
	path := fmt.Sprintf("/api/rooms/%d/join", roomID)
	return WithResourceType(c.do(ctx, "POST", path, nil, nil), ResourceRoom)
}

// LeaveRoom removes the caller from a room's member roster.
func (c *Client) LeaveRoom(ctx context.Context, roomID int64) error {
	path := fmt.Sprintf("/api/rooms/%d/leave", roomID)
	return WithResourceType(c.do(ctx, "POST", path, nil, nil), ResourceRoom)
}

// GetDistributionEntry fetches the caller's sealed room key for a room.
// Returns an error matching ErrDistributionNotFound when no entry exists.
func (c *Client) GetDistributionEntry(ctx context.Context, roomID int64) (*DistributionEntry, error) {
	var result DistributionEntry
	path := fmt.Sprintf("/api/rooms/%d/key", roomID)
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceDistribution)
	}
	return &result, nil
}

// PutDistributionEntry stores a sealed room key for a member. Called by the
// room creator on creation and by admitting members afterwards; entries are
// write-once per (room, member, key generation).
func (c *Client) PutDistributionEntry(ctx context.Context, roomID int64, username, sealedKey string) error {
	path := fmt.Sprintf("/api/rooms/%d/keys/%s", roomID, url.PathEscape(username))
	req := &PutDistributionEntryRequest{SealedKey: sealedKey}
	return WithResourceType(c.do(ctx, "PUT", path, req, nil), ResourceDistribution)
}

// SendMessage stores an encrypted message in a room.
func (c *Client) SendMessage(ctx context.Context, roomID int64, payload string) (*Message, error) {
	var result Message
	path := fmt.Sprintf("/api/rooms/%d/messages", roomID)
	if err := c.do(ctx, "POST", path, &SendMessageRequest{Payload: payload}, &result); err != nil {
		return nil, WithResourceType(err, ResourceRoom)
	}
	return &result, nil
}

// GetMessages returns a room's stored messages, oldest first.
func (c *Client) GetMessages(ctx context.Context, roomID int64) ([]Message, error) {
	var result []Message
	path := fmt.Sprintf("/api/rooms/%d/messages", roomID)
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceRoom)
	}
	return result, nil
}

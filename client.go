package quantumchat

import (
	"context"
	"errors"
	"fmt"

	"github.com/quantumchat/client-go/internal/api"
	"github.com/quantumchat/client-go/internal/crypto"
	"github.com/quantumchat/client-go/internal/roomkey"
	"github.com/quantumchat/client-go/internal/vault"
)

// Client talks to the QuantumChat backend. It holds no key material; all
// cryptographic state lives in the Session returned by Login.
type Client struct {
	apiClient *api.Client
}

// New creates a new QuantumChat client.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.retries > 0 {
		apiOpts = append(apiOpts, api.WithRetries(cfg.retries))
	}
	if len(cfg.retryOn) > 0 {
		apiOpts = append(apiOpts, api.WithRetryOn(cfg.retryOn))
	}

	apiClient := api.New(apiOpts...)
	if cfg.httpClient != nil {
		apiClient.SetHTTPClient(cfg.httpClient)
	}

	return &Client{apiClient: apiClient}
}

// Register creates a new account. The ML-KEM keypair is generated locally
// and the secret key is password-wrapped before anything is sent; the server
// receives only the public key and the encrypted record.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	keypair, err := crypto.GenerateKeypair()
	if err != nil {
		return fmt.Errorf("generate keypair: %w", err)
	}
	defer crypto.Zero(keypair.SecretKey)

	record, err := vault.Wrap(password, keypair.SecretKey)
	if err != nil {
		return fmt.Errorf("wrap secret key: %w", err)
	}

	req := &api.RegisterRequest{
		Username:            username,
		Email:               email,
		Password:            password,
		KemPublicKey:        keypair.PublicKeyB64,
		EncryptedPrivateKey: crypto.ToBase64URL(record.Encode()),
	}

	if _, err := c.apiClient.Register(ctx, req); err != nil {
		return wrapError(err)
	}
	return nil
}

// Login authenticates, fetches the user's encrypted private key record, and
// unlocks it with the password. A wrong password surfaces as
// ErrAuthenticationFailed, indistinguishable from a corrupted record.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.apiClient.Login(ctx, username, password)
	if err != nil {
		return nil, wrapError(err)
	}

	blob, err := crypto.DecodeBase64(resp.EncryptedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode encrypted key record: %w", err)
	}

	secretKey, err := unlockSecretKey(password, blob)
	if err != nil {
		if errors.Is(err, vault.ErrAuthenticationFailed) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	keypair, err := crypto.KeypairFromSecretKey(secretKey)
	if err != nil {
		crypto.Zero(secretKey)
		return nil, fmt.Errorf("restore keypair: %w", err)
	}

	s := &Session{
		apiClient: c.apiClient,
		userID:    resp.UserID,
		username:  username,
		keypair:   keypair,
		done:      make(chan struct{}),
	}
	s.roomKeys = roomkey.NewCache(roomkey.FetcherFunc(s.fetchRoomKey))

	return s, nil
}

// unlockSecretKey opens a persisted record in either layout. Records written
// by this SDK are salt || nonce || ciphertext; records from the legacy
// backend predate the explicit nonce and are recognized by their exact
// length.
func unlockSecretKey(password string, blob []byte) ([]byte, error) {
	const legacyLen = vault.SaltSize + crypto.MLKEMSecretKeySize + crypto.AESTagSize

	if len(blob) == legacyLen {
		return vault.UnwrapLegacy(password, blob)
	}

	record, err := vault.DecodeRecord(blob)
	if err != nil {
		return nil, err
	}
	return vault.Unwrap(password, record)
}

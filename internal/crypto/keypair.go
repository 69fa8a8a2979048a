package crypto

import (
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// randReader is the random source used for key generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// Keypair represents an ML-KEM-768 keypair for room key encapsulation.
type Keypair struct {
	// PublicKey is the raw ML-KEM-768 public key bytes.
	PublicKey []byte
	// SecretKey is the raw ML-KEM-768 secret key bytes.
	SecretKey []byte
	// PublicKeyB64 is the public key encoded as URL-safe base64.
	PublicKeyB64 string
}

// GenerateKeypair creates a new ML-KEM-768 keypair.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return nil, err
	}

	// MarshalBinary never fails for valid keys from GenerateKeyPair
	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &Keypair{
		PublicKey:    pubBytes,
		SecretKey:    privBytes,
		PublicKeyB64: ToBase64URL(pubBytes),
	}, nil
}

// KeypairFromSecretKey reconstructs a keypair from the secret key.
// The public key is embedded in the secret key at offset 1152.
func KeypairFromSecretKey(secretKey []byte) (*Keypair, error) {
	if len(secretKey) != MLKEMSecretKeySize {
		return nil, ErrInvalidSecretKeySize
	}

	// Validate that the secret key parses before trusting the embedded copy.
	priv := &mlkem768.PrivateKey{}
	if err := priv.Unpack(secretKey); err != nil {
		return nil, err
	}

	publicKey := make([]byte, MLKEMPublicKeySize)
	copy(publicKey, secretKey[PublicKeyOffset:PublicKeyOffset+MLKEMPublicKeySize])

	return &Keypair{
		PublicKey:    publicKey,
		SecretKey:    secretKey,
		PublicKeyB64: ToBase64URL(publicKey),
	}, nil
}

// NewKeypairFromBytes creates a keypair from separately stored key halves.
func NewKeypairFromBytes(secretKey, publicKey []byte) (*Keypair, error) {
	if len(secretKey) != MLKEMSecretKeySize {
		return nil, ErrInvalidSecretKeySize
	}
	if len(publicKey) != MLKEMPublicKeySize {
		return nil, ErrInvalidPublicKeySize
	}

	priv := &mlkem768.PrivateKey{}
	if err := priv.Unpack(secretKey); err != nil {
		return nil, err
	}

	return &Keypair{
		PublicKey:    publicKey,
		SecretKey:    secretKey,
		PublicKeyB64: ToBase64URL(publicKey),
	}, nil
}

// Encapsulate generates a fresh shared secret for the holder of peerPublicKey
// and the KEM ciphertext that transports it.
func Encapsulate(peerPublicKey []byte) (kemCiphertext, sharedSecret []byte, err error) {
	if len(peerPublicKey) != MLKEMPublicKeySize {
		return nil, nil, ErrInvalidPublicKeySize
	}

	pub := &mlkem768.PublicKey{}
	if err := pub.Unpack(peerPublicKey); err != nil {
		return nil, nil, err
	}

	kemCiphertext = make([]byte, MLKEMCiphertextSize)
	sharedSecret = make([]byte, MLKEMSharedKeySize)
	pub.EncapsulateTo(kemCiphertext, sharedSecret, nil)

	return kemCiphertext, sharedSecret, nil
}

// Decapsulate recovers the shared secret from a KEM ciphertext.
//
// ML-KEM uses implicit rejection: a mismatched ciphertext does not error here
// but yields a secret that fails the AEAD check one layer up.
func (k *Keypair) Decapsulate(kemCiphertext []byte) ([]byte, error) {
	if len(kemCiphertext) != MLKEMCiphertextSize {
		return nil, ErrInvalidCiphertextSize
	}

	var privKey mlkem768.PrivateKey
	if err := privKey.Unpack(k.SecretKey); err != nil {
		return nil, err
	}

	sharedSecret := make([]byte, MLKEMSharedKeySize)
	privKey.DecapsulateTo(sharedSecret, kemCiphertext)

	return sharedSecret, nil
}

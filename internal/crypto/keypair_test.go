package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateKeypair(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair() error = %v", err)
	}

	if len(kp.PublicKey) != MLKEMPublicKeySize {
		t.Errorf("PublicKey length = %d, want %d", len(kp.PublicKey), MLKEMPublicKeySize)
	}
	if len(kp.SecretKey) != MLKEMSecretKeySize {
		t.Errorf("SecretKey length = %d, want %d", len(kp.SecretKey), MLKEMSecretKeySize)
	}

	decoded, err := FromBase64URL(kp.PublicKeyB64)
	if err != nil {
		t.Fatalf("PublicKeyB64 is not valid base64url: %v", err)
	}
	if !bytes.Equal(decoded, kp.PublicKey) {
		t.Error("PublicKeyB64 does not encode PublicKey")
	}
}

func TestGenerateKeypair_Unique(t *testing.T) {
	kp1, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}
	kp2, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(kp1.SecretKey, kp2.SecretKey) {
		t.Error("two generated keypairs share a secret key")
	}
}

func TestKeypairFromSecretKey(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	restored, err := KeypairFromSecretKey(kp.SecretKey)
	if err != nil {
		t.Fatalf("KeypairFromSecretKey() error = %v", err)
	}

	if !bytes.Equal(restored.PublicKey, kp.PublicKey) {
		t.Error("restored public key differs from original")
	}
	if restored.PublicKeyB64 != kp.PublicKeyB64 {
		t.Error("restored PublicKeyB64 differs from original")
	}
}

func TestKeypairFromSecretKey_InvalidSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"too short", MLKEMSecretKeySize - 1},
		{"too long", MLKEMSecretKeySize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KeypairFromSecretKey(make([]byte, tt.size))
			if !errors.Is(err, ErrInvalidSecretKeySize) {
				t.Errorf("expected ErrInvalidSecretKeySize, got %v", err)
			}
		})
	}
}

func TestNewKeypairFromBytes(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	restored, err := NewKeypairFromBytes(kp.SecretKey, kp.PublicKey)
	if err != nil {
		t.Fatalf("NewKeypairFromBytes() error = %v", err)
	}
	if restored.PublicKeyB64 != kp.PublicKeyB64 {
		t.Error("restored PublicKeyB64 differs from original")
	}

	if _, err := NewKeypairFromBytes(make([]byte, 10), kp.PublicKey); !errors.Is(err, ErrInvalidSecretKeySize) {
		t.Errorf("expected ErrInvalidSecretKeySize, got %v", err)
	}
	if _, err := NewKeypairFromBytes(kp.SecretKey, make([]byte, 10)); !errors.Is(err, ErrInvalidPublicKeySize) {
		t.Errorf("expected ErrInvalidPublicKeySize, got %v", err)
	}
}

func TestEncapsulate_Decapsulate_RoundTrip(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	kemCiphertext, sharedSecret, err := Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}

	if len(kemCiphertext) != MLKEMCiphertextSize {
		t.Errorf("ciphertext length = %d, want %d", len(kemCiphertext), MLKEMCiphertextSize)
	}
	if len(sharedSecret) != MLKEMSharedKeySize {
		t.Errorf("shared secret length = %d, want %d", len(sharedSecret), MLKEMSharedKeySize)
	}

	recovered, err := kp.Decapsulate(kemCiphertext)
	if err != nil {
		t.Fatalf("Decapsulate() error = %v", err)
	}

	if !bytes.Equal(recovered, sharedSecret) {
		t.Error("decapsulated secret differs from encapsulated secret")
	}
}

func TestEncapsulate_FreshSecretPerCall(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	_, ss1, err := Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	_, ss2, err := Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(ss1, ss2) {
		t.Error("two encapsulations produced the same shared secret")
	}
}

func TestEncapsulate_InvalidPublicKeySize(t *testing.T) {
	_, _, err := Encapsulate(make([]byte, MLKEMPublicKeySize-1))
	if !errors.Is(err, ErrInvalidPublicKeySize) {
		t.Errorf("expected ErrInvalidPublicKeySize, got %v", err)
	}
}

func TestDecapsulate_InvalidCiphertextSize(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	_, err = kp.Decapsulate(make([]byte, MLKEMCiphertextSize+1))
	if !errors.Is(err, ErrInvalidCiphertextSize) {
		t.Errorf("expected ErrInvalidCiphertextSize, got %v", err)
	}
}

func TestDecapsulate_WrongKeypair(t *testing.T) {
	alice, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}
	bob, err := GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	kemCiphertext, sharedSecret, err := Encapsulate(alice.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	// Implicit rejection: decapsulating with the wrong key yields a
	// different secret rather than an error.
	recovered, err := bob.Decapsulate(kemCiphertext)
	if err != nil {
		t.Fatalf("Decapsulate() error = %v", err)
	}
	if bytes.Equal(recovered, sharedSecret) {
		t.Error("wrong keypair recovered the correct shared secret")
	}
}

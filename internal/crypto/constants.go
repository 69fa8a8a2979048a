package crypto

const (
	// RoomKeyContext is the HKDF domain-separation context for deriving the
	// wrapping key that protects a sealed room key.
	RoomKeyContext = "quantumchat:roomkey:v1"

	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// RoomKeySize is the size of a room's symmetric key in bytes.
	RoomKeySize = 32

	// SealedRoomKeySize is the size of a sealed room key blob:
	// KEM ciphertext || nonce || encrypted room key || tag.
	SealedRoomKeySize = MLKEMCiphertextSize + AESNonceSize + RoomKeySize + AESTagSize

	// PBKDF2SaltSize is the size of the salt used for password key derivation.
	PBKDF2SaltSize = 16
	// PBKDF2Iterations is the fixed PBKDF2-HMAC-SHA-256 iteration count used
	// when wrapping the long-term secret key. OWASP-recommended floor; the
	// legacy backend used 100,000.
	PBKDF2Iterations = 310_000

	// PublicKeyOffset is the byte offset where the public key is embedded
	// within an ML-KEM-768 secret key.
	PublicKeyOffset = 1152
)

// AlgsCiphersuite is the canonical string representation of the algorithm suite.
var AlgsCiphersuite = "ML-KEM-768:AES-256-GCM:HKDF-SHA-512:PBKDF2-HMAC-SHA-256"

// Package quantumchat is the client SDK for the QuantumChat encrypted
// messaging service. It owns every piece of key material in the system: the
// server stores only public keys, password-wrapped private key records, and
// sealed room keys it cannot open.
//
// # Sessions
//
// A [Client] talks to the backend; a [Session] is one unlocked user identity.
// Registering generates an ML-KEM-768 keypair and wraps the secret key under
// the password before anything leaves the process. Logging in fetches the
// wrapped record, unwraps it locally, and yields a Session holding the
// plaintext key in memory only:
//
//	client := quantumchat.New(quantumchat.WithBaseURL(url))
//	if err := client.Register(ctx, "alice", "alice@example.com", password); err != nil {
//	    return err
//	}
//	session, err := client.Login(ctx, "alice", password)
//	if err != nil {
//	    return err
//	}
//	defer session.Lock()
//
// # Room keys
//
// Each room has one 32-byte symmetric key shared by its members. The key is
// distributed by sealing it to each member's public key (KEM encapsulation
// plus AEAD wrapping); members resolve it lazily on first use and cache it
// for the session. Resolution is single-flight: concurrent sends into the
// same room cost one distribution fetch and one decapsulation, total.
//
//	msg, err := session.EncryptMessage(ctx, roomID, []byte("hello"))
//
// [Session.Lock] wipes the private key and cached room keys; a locked session
// rejects all cryptographic operations with [ErrSessionLocked].
//
// # Errors
//
// Failed message authentication surfaces as [ErrAuthenticationFailed] and
// means the ciphertext was tampered with or the cached room key is stale
// after a rotation. It is a normal, recoverable condition, not a crash. A
// distribution entry that cannot be opened with this session's key surfaces
// as [ErrDecapsulationFailed] and signals a protocol bug or tampering; the
// SDK never substitutes fabricated key material for a failed decapsulation.
// No error produced by this package contains passwords, keys, or shared
// secrets.
package quantumchat

package crypto

import "crypto/subtle"

// Zero overwrites b with zeros in a constant-time friendly way.
// Go gives no hard guarantee the compiler keeps the wipe, but
// subtle.ConstantTimeCopy is opaque enough to survive current toolchains.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}

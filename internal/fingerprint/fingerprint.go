// Package fingerprint computes content digests for uploaded image payloads.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestLen is the length of a hex-encoded digest.
const DigestLen = sha256.Size * 2

// Digest is a hex encoded SHA-256 of the exact payload bytes.
type Digest string

// Compute returns the digest of data. It never fails; an empty payload still
// has a digest, rejecting empty uploads is the caller's job.
func Compute(data []byte) Digest {
	sum := sha256.Sum256(data)
	return Digest(hex.EncodeToString(sum[:]))
}

// String returns the digest as a plain string.
func (d Digest) String() string {
	return string(d)
}

// Valid reports whether d looks like a digest produced by Compute.
func (d Digest) Valid() bool {
	if len(d) != DigestLen {
		return false
	}
	_, err := hex.DecodeString(string(d))
	return err == nil
}

package cryptkeeper

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DigestFunc computes a digest of a field value. The container directive's
// digest expression must satisfy this signature. Digest functions are assumed
// pure and non-failing; generated code calls them without error handling.
//
// Digest functions must be deterministic: the generated Encrypt assigns
// digest(ciphertext) into the sibling field so integrity can be verified
// without decrypting.
type DigestFunc func(value string) string

// SHA256Hex returns the hex-encoded SHA-256 digest of value.
func SHA256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// SHA512Hex returns the hex-encoded SHA-512 digest of value.
func SHA512Hex(value string) string {
	sum := sha512.Sum512([]byte(value))
	return hex.EncodeToString(sum[:])
}

// BLAKE2b256Hex returns the hex-encoded BLAKE2b-256 digest of value.
func BLAKE2b256Hex(value string) string {
	sum := blake2b.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

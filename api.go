// Package cryptkeeper provides annotation-driven code generation for field
// encryption.
//
// The generator scans a Go package for structs that opt in via a directive
// comment, reads per-field struct tags, and emits symmetric Encrypt/Decrypt
// methods that wire the annotated fields to a caller-supplied encryption
// service. No cryptography happens at generation time; the generator only
// emits call sites.
//
// # Directives
//
// A struct opts in with a directive comment naming the service expression the
// generated methods call, and optionally a digest function:
//
//	//crypt:generate service=vault.Keeper digest=cryptkeeper.SHA256Hex
//	type User struct {
//	    Email       string   `crypt:"encrypt,decrypt"`
//	    Phone       string   `crypt:"encrypt"`
//	    Nickname    *string  `crypt:"encrypt,decrypt"`
//	    Aliases     []string `crypt:"encrypt,decrypt"`
//	    Name        string
//	    EmailDigest string
//	}
//
// Recognized container keys are exactly "service" (required) and "digest"
// (optional). Recognized field tag tokens are exactly "encrypt" and
// "decrypt"; a field without a crypt tag is copied unchanged by both
// generated methods. Any unrecognized key or token fails generation so a
// typo can never silently leave a field in plaintext.
//
// # Field shapes
//
// Transformation strategy is driven by the declared field type:
//
//   - string:   transformed in place; the empty string passes through
//     without a service call
//   - *string:  nil short-circuits; a present value follows the string rule
//     and is re-wrapped in a fresh pointer
//   - []string: the string rule applies to every element, preserving order
//     and count; an empty slice never touches the service
//
// Any other type is copied unchanged. Tagging such a field is a generation
// error.
//
// # Digest siblings
//
// When the container directive configures a digest function, every encrypted
// field whose struct declares a sibling named {Field}Digest has that sibling
// assigned digest(ciphertext) inside the generated Encrypt. The digest is
// computed from the post-encryption value, so it verifies ciphertext
// integrity. Decrypt never touches digest fields. A missing sibling simply
// skips digest synthesis for that field.
//
// # Generated artifact
//
// For each annotated struct T the generator emits:
//
//	func (x T) Encrypt() (T, error)
//	func (x T) Decrypt() (T, error)
//
// Both return a fresh instance; the receiver is never mutated. The first
// failing service call aborts the whole transformation and is returned
// wrapped with the field name. Output is gofmt-formatted and deterministic,
// so regenerating produces byte-identical files.
//
// # Invocation
//
// The generator is normally run through go:generate:
//
//	//go:generate go run github.com/zoobzio/cryptkeeper/cmd/cryptkeeper --out crypt_gen.go
package cryptkeeper

// Encryptable is the capability implemented by every generated type:
// symmetric transformations that return a fresh instance of the same type.
//
// Generated methods satisfy this interface by construction; it exists so
// callers can constrain generics over annotated types.
type Encryptable[T any] interface {
	// Encrypt returns a copy with annotated fields encrypted.
	Encrypt() (T, error)

	// Decrypt returns a copy with annotated fields decrypted.
	Decrypt() (T, error)
}

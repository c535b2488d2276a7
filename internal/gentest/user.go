// Package gentest pins a generated artifact and verifies its runtime
// behavior: round-trip laws, short-circuits, digest population, and error
// propagation. The user_crypt.go file in this package is generator output
// checked in alongside its source.
package gentest

import (
	"time"

	"github.com/zoobzio/cryptkeeper"
)

//go:generate go run github.com/zoobzio/cryptkeeper/cmd/cryptkeeper --out user_crypt.go

// keeper is the service the generated methods call. Tests swap it per case.
var keeper cryptkeeper.Service

// User exercises every supported field shape plus a digest sibling and an
// unsupported passthrough field.
//
//crypt:generate service=keeper digest=cryptkeeper.SHA256Hex
type User struct {
	Email       string   `crypt:"encrypt,decrypt"`
	Phone       string   `crypt:"encrypt"`
	Nickname    *string  `crypt:"encrypt,decrypt"`
	Aliases     []string `crypt:"encrypt,decrypt"`
	Name        string
	EmailDigest string
	CreatedAt   time.Time
}

// Audit has a directive but no tagged fields, so both generated methods are
// the identity.
//
//crypt:generate service=keeper
type Audit struct {
	ID   string
	Note string
}

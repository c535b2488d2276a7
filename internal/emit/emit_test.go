package emit

import (
	"bytes"
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zoobzio/cryptkeeper/internal/scan"
)

func scanSrc(t *testing.T, src string) []scan.Struct {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "src.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	structs, err := scan.Package(context.Background(), "demo", []*ast.File{file})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return structs
}

const srcFull = `package demo

import (
	"time"

	"github.com/zoobzio/cryptkeeper"
)

var keeper cryptkeeper.Service

//crypt:generate service=keeper digest=cryptkeeper.SHA256Hex
type User struct {
	Email       string   ` + "`crypt:\"encrypt,decrypt\"`" + `
	Phone       string   ` + "`crypt:\"encrypt\"`" + `
	Nickname    *string  ` + "`crypt:\"encrypt,decrypt\"`" + `
	Aliases     []string ` + "`crypt:\"encrypt,decrypt\"`" + `
	Name        string
	EmailDigest string
	CreatedAt   time.Time
}

//crypt:generate service=keeper
type Audit struct {
	ID   string
	Note string
}
`

const goldenFull = `// Code generated by cryptkeeper; DO NOT EDIT.

package demo

import (
	"fmt"

	"github.com/zoobzio/cryptkeeper"
)

// Encrypt returns a copy of User with annotated fields encrypted.
func (x User) Encrypt() (User, error) {
	out := x
	if x.Email != "" {
		v, err := keeper.Encrypt(x.Email)
		if err != nil {
			return User{}, fmt.Errorf("encrypt field Email: %w", err)
		}
		out.Email = v
	}
	if x.Phone != "" {
		v, err := keeper.Encrypt(x.Phone)
		if err != nil {
			return User{}, fmt.Errorf("encrypt field Phone: %w", err)
		}
		out.Phone = v
	}
	if x.Nickname != nil {
		v := *x.Nickname
		if v != "" {
			tv, err := keeper.Encrypt(v)
			if err != nil {
				return User{}, fmt.Errorf("encrypt field Nickname: %w", err)
			}
			v = tv
		}
		out.Nickname = &v
	}
	if len(x.Aliases) > 0 {
		vs := make([]string, len(x.Aliases))
		for i, v := range x.Aliases {
			if v == "" {
				continue
			}
			tv, err := keeper.Encrypt(v)
			if err != nil {
				return User{}, fmt.Errorf("encrypt field Aliases[%d]: %w", i, err)
			}
			vs[i] = tv
		}
		out.Aliases = vs
	}
	out.EmailDigest = cryptkeeper.SHA256Hex(out.Email)
	return out, nil
}

// Decrypt returns a copy of User with annotated fields decrypted.
func (x User) Decrypt() (User, error) {
	out := x
	if x.Email != "" {
		v, err := keeper.Decrypt(x.Email)
		if err != nil {
			return User{}, fmt.Errorf("decrypt field Email: %w", err)
		}
		out.Email = v
	}
	if x.Nickname != nil {
		v := *x.Nickname
		if v != "" {
			tv, err := keeper.Decrypt(v)
			if err != nil {
				return User{}, fmt.Errorf("decrypt field Nickname: %w", err)
			}
			v = tv
		}
		out.Nickname = &v
	}
	if len(x.Aliases) > 0 {
		vs := make([]string, len(x.Aliases))
		for i, v := range x.Aliases {
			if v == "" {
				continue
			}
			tv, err := keeper.Decrypt(v)
			if err != nil {
				return User{}, fmt.Errorf("decrypt field Aliases[%d]: %w", i, err)
			}
			vs[i] = tv
		}
		out.Aliases = vs
	}
	return out, nil
}

// Encrypt returns a copy of Audit with annotated fields encrypted.
func (x Audit) Encrypt() (Audit, error) {
	out := x
	return out, nil
}

// Decrypt returns a copy of Audit with annotated fields decrypted.
func (x Audit) Decrypt() (Audit, error) {
	out := x
	return out, nil
}
`

func TestFile_Golden(t *testing.T) {
	structs := scanSrc(t, srcFull)

	got, err := File(context.Background(), "demo", structs)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	if diff := cmp.Diff(goldenFull, string(got)); diff != "" {
		t.Errorf("generated output mismatch (-want +got):\n%s", diff)
	}
}

func TestFile_Deterministic(t *testing.T) {
	structs := scanSrc(t, srcFull)

	first, err := File(context.Background(), "demo", structs)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	second, err := File(context.Background(), "demo", structs)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("regeneration should be byte-for-byte identical")
	}
}

func TestFile_AliasedServiceImport(t *testing.T) {
	structs := scanSrc(t, `package demo

import vaultx "example.com/vault"

//crypt:generate service=vaultx.Keeper
type Note struct {
	Body string `+"`crypt:\"encrypt\"`"+`
}
`)

	golden := `// Code generated by cryptkeeper; DO NOT EDIT.

package demo

import (
	"fmt"

	vaultx "example.com/vault"
)

// Encrypt returns a copy of Note with annotated fields encrypted.
func (x Note) Encrypt() (Note, error) {
	out := x
	if x.Body != "" {
		v, err := vaultx.Keeper.Encrypt(x.Body)
		if err != nil {
			return Note{}, fmt.Errorf("encrypt field Body: %w", err)
		}
		out.Body = v
	}
	return out, nil
}

// Decrypt returns a copy of Note with annotated fields decrypted.
func (x Note) Decrypt() (Note, error) {
	out := x
	return out, nil
}
`

	got, err := File(context.Background(), "demo", structs)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if diff := cmp.Diff(golden, string(got)); diff != "" {
		t.Errorf("generated output mismatch (-want +got):\n%s", diff)
	}
}

func TestFile_IdentityStructOmitsImports(t *testing.T) {
	structs := scanSrc(t, `package demo

import "example.com/vault"

//crypt:generate service=vault.Keeper
type Audit struct {
	ID string
}
`)

	golden := `// Code generated by cryptkeeper; DO NOT EDIT.

package demo

// Encrypt returns a copy of Audit with annotated fields encrypted.
func (x Audit) Encrypt() (Audit, error) {
	out := x
	return out, nil
}

// Decrypt returns a copy of Audit with annotated fields decrypted.
func (x Audit) Decrypt() (Audit, error) {
	out := x
	return out, nil
}
`

	got, err := File(context.Background(), "demo", structs)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if diff := cmp.Diff(golden, string(got)); diff != "" {
		t.Errorf("generated output mismatch (-want +got):\n%s", diff)
	}
}

func TestFile_OptionalDigestBinding(t *testing.T) {
	structs := scanSrc(t, `package demo

var keeper any

func digestFn(string) string { return "" }

//crypt:generate service=keeper digest=digestFn
type Token struct {
	Secret       *string `+"`crypt:\"encrypt\"`"+`
	SecretDigest string
}
`)

	golden := `// Code generated by cryptkeeper; DO NOT EDIT.

package demo

import (
	"fmt"
)

// Encrypt returns a copy of Token with annotated fields encrypted.
func (x Token) Encrypt() (Token, error) {
	out := x
	if x.Secret != nil {
		v := *x.Secret
		if v != "" {
			tv, err := keeper.Encrypt(v)
			if err != nil {
				return Token{}, fmt.Errorf("encrypt field Secret: %w", err)
			}
			v = tv
		}
		out.Secret = &v
	}
	if out.Secret != nil {
		out.SecretDigest = digestFn(*out.Secret)
	}
	return out, nil
}

// Decrypt returns a copy of Token with annotated fields decrypted.
func (x Token) Decrypt() (Token, error) {
	out := x
	return out, nil
}
`

	got, err := File(context.Background(), "demo", structs)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if diff := cmp.Diff(golden, string(got)); diff != "" {
		t.Errorf("generated output mismatch (-want +got):\n%s", diff)
	}
}

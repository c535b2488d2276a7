package scan

import (
	"go/ast"
	"reflect"
	"strings"

	"github.com/zoobzio/cryptkeeper"
)

// DirectivePrefix marks a struct for generation. The remainder of the line
// is space-separated key=value pairs.
const DirectivePrefix = "//crypt:generate"

// TagKey is the struct tag key holding field operations.
const TagKey = "crypt"

// directive holds a parsed container directive.
type directive struct {
	service string
	digest  string
}

// findDirective returns the directive line attached to a type declaration,
// checking the spec's own doc comment before the enclosing declaration's.
// The second return reports whether a directive was found.
func findDirective(decl *ast.GenDecl, spec *ast.TypeSpec) (string, bool) {
	for _, group := range []*ast.CommentGroup{spec.Doc, decl.Doc} {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			if c.Text == DirectivePrefix || strings.HasPrefix(c.Text, DirectivePrefix+" ") {
				return strings.TrimSpace(strings.TrimPrefix(c.Text, DirectivePrefix)), true
			}
		}
	}
	return "", false
}

// parseDirective parses the key=value pairs of a container directive.
// Recognized keys are exactly "service" (required) and "digest" (optional).
func parseDirective(structName, line string) (directive, error) {
	var d directive

	for _, pair := range strings.Fields(line) {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return d, cryptkeeper.NewDirectiveError(cryptkeeper.ErrUnknownDirective, structName, "", pair)
		}

		switch key {
		case "service":
			d.service = value
		case "digest":
			d.digest = value
		default:
			return d, cryptkeeper.NewDirectiveError(cryptkeeper.ErrUnknownDirective, structName, "", key)
		}
	}

	if d.service == "" {
		return d, cryptkeeper.NewDirectiveError(cryptkeeper.ErrMissingService, structName, "", "")
	}

	return d, nil
}

// fieldOps holds operations requested by a field tag.
type fieldOps struct {
	encrypt bool
	decrypt bool
}

// lookupTag extracts the crypt tag value from a field, if any.
func lookupTag(field *ast.Field) (string, bool) {
	if field.Tag == nil {
		return "", false
	}
	tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
	return tag.Lookup(TagKey)
}

// parseFieldTag parses a crypt tag value into operations. Recognized tokens
// are exactly "encrypt" and "decrypt"; anything else fails generation so a
// typo can never silently leave a field in plaintext.
func parseFieldTag(structName, fieldName, value string) (fieldOps, error) {
	var ops fieldOps

	for _, token := range strings.Split(value, ",") {
		switch strings.TrimSpace(token) {
		case "":
			// crypt:"" means no operations
		case "encrypt":
			ops.encrypt = true
		case "decrypt":
			ops.decrypt = true
		default:
			return ops, cryptkeeper.NewDirectiveError(cryptkeeper.ErrUnknownDirective, structName, fieldName, strings.TrimSpace(token))
		}
	}

	return ops, nil
}

package scan

// Shape classifies a field's declared type and drives which synthesis
// strategy applies. Shape is determined solely by the declared type, never
// by directives.
type Shape int

const (
	// ShapeUnsupported covers every type the generator cannot transform.
	// Such fields are copied as-is; tagging them is a generation error.
	ShapeUnsupported Shape = iota

	// ShapePlain is a bare string.
	ShapePlain

	// ShapeOptional is a *string; nil means absent.
	ShapeOptional

	// ShapeList is a []string.
	ShapeList
)

func (s Shape) String() string {
	switch s {
	case ShapePlain:
		return "plain"
	case ShapeOptional:
		return "optional"
	case ShapeList:
		return "list"
	default:
		return "unsupported"
	}
}

// Field describes one struct field and the operations its tag requested.
type Field struct {
	Name    string
	Type    string // declared type as written, for diagnostics
	Shape   Shape
	Encrypt bool
	Decrypt bool

	// DigestSibling is the name of the {Name}Digest field that receives
	// digest(ciphertext) during Encrypt, or "" when no binding applies.
	DigestSibling string
}

// Import is a package import the generated file must carry so a service or
// digest expression resolves.
type Import struct {
	Name string // local alias, "" when the default package name is used
	Path string
}

// Struct is the descriptor for one annotated struct: the parsed container
// directive plus classified fields in declaration order. Descriptors are
// read-only views over the source; the emitter never mutates them.
type Struct struct {
	Name    string
	Service string // service expression, verbatim from the directive
	Digest  string // digest expression, "" when none configured
	Fields  []Field

	// ServiceImports and DigestImports are kept separate so the emitter can
	// omit whichever expression the generated methods never call.
	ServiceImports []Import
	DigestImports  []Import
}

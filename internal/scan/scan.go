// Package scan extracts and validates cryptkeeper directives from parsed Go
// source, producing the struct descriptors the emitter consumes.
//
// Scanning is a pure, single-pass read over the ASTs: no type checking, no
// mutation, no partial results. Any directive error aborts the scan for the
// whole package so generation is all-or-nothing.
package scan

import (
	"context"
	"go/ast"
	"go/types"
	"time"

	"github.com/zoobzio/cryptkeeper"
)

// Package scans the files of one package and returns a descriptor per
// annotated struct, in source order. Structs without a directive and without
// crypt tags are ignored; structs carrying crypt tags but no directive fail
// with ErrMissingService so field directives can never be silently inert.
func Package(ctx context.Context, pkgName string, files []*ast.File) ([]Struct, error) {
	start := time.Now()
	cryptkeeper.EmitScanStart(ctx, pkgName)

	structs, fields, err := scanFiles(files)
	cryptkeeper.EmitScanComplete(ctx, pkgName, len(structs), fields, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return structs, nil
}

func scanFiles(files []*ast.File) ([]Struct, int, error) {
	scope := packageScope(files)

	var structs []Struct
	var fieldCount int

	for _, file := range files {
		imports := fileImports(file)

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}

				desc, found, err := scanStruct(gen, ts, st, imports, scope)
				if err != nil {
					return nil, 0, err
				}
				if found {
					structs = append(structs, desc)
					fieldCount += len(desc.Fields)
				}
			}
		}
	}

	return structs, fieldCount, nil
}

// scanStruct builds the descriptor for one struct type. The second return
// reports whether the struct opted in to generation.
func scanStruct(gen *ast.GenDecl, ts *ast.TypeSpec, st *ast.StructType, imports map[string]Import, scope map[string]bool) (Struct, bool, error) {
	name := ts.Name.Name

	line, hasDirective := findDirective(gen, ts)
	if !hasDirective {
		// Field tags without a container directive would silently never
		// run; refuse rather than leave data in plaintext.
		for _, field := range st.Fields.List {
			if _, tagged := lookupTag(field); tagged {
				return Struct{}, false, cryptkeeper.NewDirectiveError(cryptkeeper.ErrMissingService, name, fieldName(field), "")
			}
		}
		return Struct{}, false, nil
	}

	d, err := parseDirective(name, line)
	if err != nil {
		return Struct{}, false, err
	}

	desc := Struct{
		Name:    name,
		Service: d.service,
		Digest:  d.digest,
	}

	for _, field := range st.Fields.List {
		fields, err := scanField(name, field)
		if err != nil {
			return Struct{}, false, err
		}
		desc.Fields = append(desc.Fields, fields...)
	}

	if err := bindDigests(&desc); err != nil {
		return Struct{}, false, err
	}

	if err := resolveImports(&desc, imports, scope); err != nil {
		return Struct{}, false, err
	}

	return desc, true, nil
}

// scanField classifies one field entry, which may declare several names.
func scanField(structName string, field *ast.Field) ([]Field, error) {
	shape := classifyShape(field.Type)
	typeStr := types.ExprString(field.Type)

	value, tagged := lookupTag(field)

	// Embedded fields have no names and are copied through the struct copy.
	if len(field.Names) == 0 {
		if tagged {
			return nil, cryptkeeper.NewDirectiveError(cryptkeeper.ErrUnsupportedField, structName, typeStr, typeStr)
		}
		return nil, nil
	}

	var ops fieldOps
	if tagged {
		var err error
		ops, err = parseFieldTag(structName, field.Names[0].Name, value)
		if err != nil {
			return nil, err
		}
	}

	out := make([]Field, 0, len(field.Names))
	for _, ident := range field.Names {
		if shape == ShapeUnsupported && (ops.encrypt || ops.decrypt) {
			return nil, cryptkeeper.NewDirectiveError(cryptkeeper.ErrUnsupportedField, structName, ident.Name, typeStr)
		}
		out = append(out, Field{
			Name:    ident.Name,
			Type:    typeStr,
			Shape:   shape,
			Encrypt: ops.encrypt,
			Decrypt: ops.decrypt,
		})
	}
	return out, nil
}

// bindDigests resolves digest siblings: every encrypted plain or optional
// field binds to a plain {Name}Digest sibling when one exists. A missing or
// non-plain sibling skips the binding; a sibling with its own operations is
// a conflict because the digest assignment would overwrite them.
func bindDigests(desc *Struct) error {
	if desc.Digest == "" {
		return nil
	}

	byName := make(map[string]*Field, len(desc.Fields))
	for i := range desc.Fields {
		byName[desc.Fields[i].Name] = &desc.Fields[i]
	}

	for i := range desc.Fields {
		f := &desc.Fields[i]
		if !f.Encrypt {
			continue
		}
		if f.Shape != ShapePlain && f.Shape != ShapeOptional {
			continue
		}

		sibling, ok := byName[f.Name+"Digest"]
		if !ok || sibling.Shape != ShapePlain {
			continue
		}
		if sibling.Encrypt || sibling.Decrypt {
			return cryptkeeper.NewDirectiveError(cryptkeeper.ErrDirectiveConflict, desc.Name, sibling.Name, "digest sibling has its own operations")
		}
		f.DigestSibling = sibling.Name
	}

	return nil
}

// resolveImports collects the imports the service and digest expressions
// require in the generated file.
func resolveImports(desc *Struct, imports map[string]Import, scope map[string]bool) error {
	svcImports, err := exprImports(desc.Name, desc.Service, imports, scope)
	if err != nil {
		return err
	}
	desc.ServiceImports = svcImports

	if desc.Digest == "" {
		return nil
	}

	digestImports, err := exprImports(desc.Name, desc.Digest, imports, scope)
	if err != nil {
		return err
	}
	desc.DigestImports = digestImports
	return nil
}

// fieldName returns the first declared name of a field entry, or its type
// for embedded fields.
func fieldName(field *ast.Field) string {
	if len(field.Names) > 0 {
		return field.Names[0].Name
	}
	return types.ExprString(field.Type)
}

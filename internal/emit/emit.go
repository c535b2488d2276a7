// Package emit renders generated Encrypt/Decrypt methods from struct
// descriptors.
//
// Emission is a pure, single-pass transformation: descriptors in, one
// formatted source file out. Structs appear in descriptor order and fields
// in declaration order, so regenerating over unchanged input is
// byte-for-byte identical.
package emit

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"sort"
	"time"

	"github.com/zoobzio/cryptkeeper"
	"github.com/zoobzio/cryptkeeper/internal/scan"
)

// header marks the output as machine-generated, per golang.org/s/generatedcode.
const header = "// Code generated by cryptkeeper; DO NOT EDIT.\n\n"

// File renders the generated source file for one package.
func File(ctx context.Context, pkgName string, structs []scan.Struct) ([]byte, error) {
	start := time.Now()
	cryptkeeper.EmitEmitStart(ctx, pkgName, len(structs))

	src, err := render(pkgName, structs)
	cryptkeeper.EmitEmitComplete(ctx, pkgName, len(src), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func render(pkgName string, structs []scan.Struct) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	fmt.Fprintf(&buf, "package %s\n\n", pkgName)

	writeImports(&buf, structs)

	for i := range structs {
		writeEncrypt(&buf, &structs[i])
		writeDecrypt(&buf, &structs[i])
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// writeImports emits the import block: fmt (for error wrapping) plus the
// imports the service and digest expressions need. Imports belonging to an
// expression the methods never call are omitted so the output compiles.
func writeImports(buf *bytes.Buffer, structs []scan.Struct) {
	needFmt := false
	byPath := make(map[string]scan.Import)

	for i := range structs {
		s := &structs[i]
		if usesService(s) {
			needFmt = true
			for _, imp := range s.ServiceImports {
				byPath[imp.Path] = imp
			}
		}
		if usesDigest(s) {
			for _, imp := range s.DigestImports {
				byPath[imp.Path] = imp
			}
		}
	}

	if !needFmt && len(byPath) == 0 {
		return
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	buf.WriteString("import (\n")
	if needFmt {
		buf.WriteString("\t\"fmt\"\n")
	}
	if needFmt && len(paths) > 0 {
		buf.WriteString("\n")
	}
	for _, path := range paths {
		imp := byPath[path]
		if imp.Name != "" {
			fmt.Fprintf(buf, "\t%s %q\n", imp.Name, imp.Path)
		} else {
			fmt.Fprintf(buf, "\t%q\n", imp.Path)
		}
	}
	buf.WriteString(")\n\n")
}

func usesService(s *scan.Struct) bool {
	for _, f := range s.Fields {
		if f.Encrypt || f.Decrypt {
			return true
		}
	}
	return false
}

func usesDigest(s *scan.Struct) bool {
	for _, f := range s.Fields {
		if f.DigestSibling != "" {
			return true
		}
	}
	return false
}

func writeEncrypt(buf *bytes.Buffer, s *scan.Struct) {
	fmt.Fprintf(buf, "// Encrypt returns a copy of %s with annotated fields encrypted.\n", s.Name)
	fmt.Fprintf(buf, "func (x %s) Encrypt() (%s, error) {\n", s.Name, s.Name)
	buf.WriteString("\tout := x\n")

	for _, f := range s.Fields {
		if f.Encrypt {
			writeFieldOp(buf, s, f, "Encrypt", "encrypt")
		}
	}

	for _, f := range s.Fields {
		if f.DigestSibling == "" {
			continue
		}
		switch f.Shape {
		case scan.ShapePlain:
			fmt.Fprintf(buf, "\tout.%s = %s(out.%s)\n", f.DigestSibling, s.Digest, f.Name)
		case scan.ShapeOptional:
			fmt.Fprintf(buf, "\tif out.%s != nil {\n", f.Name)
			fmt.Fprintf(buf, "\t\tout.%s = %s(*out.%s)\n", f.DigestSibling, s.Digest, f.Name)
			buf.WriteString("\t}\n")
		}
	}

	buf.WriteString("\treturn out, nil\n}\n\n")
}

func writeDecrypt(buf *bytes.Buffer, s *scan.Struct) {
	fmt.Fprintf(buf, "// Decrypt returns a copy of %s with annotated fields decrypted.\n", s.Name)
	fmt.Fprintf(buf, "func (x %s) Decrypt() (%s, error) {\n", s.Name, s.Name)
	buf.WriteString("\tout := x\n")

	for _, f := range s.Fields {
		if f.Decrypt {
			writeFieldOp(buf, s, f, "Decrypt", "decrypt")
		}
	}

	buf.WriteString("\treturn out, nil\n}\n\n")
}

// writeFieldOp emits the shape-specific transformation for one field.
// method is the Service method name, verb the error-message prefix.
func writeFieldOp(buf *bytes.Buffer, s *scan.Struct, f scan.Field, method, verb string) {
	switch f.Shape {
	case scan.ShapePlain:
		// Empty string means "no data"; never hand it to the service.
		fmt.Fprintf(buf, "\tif x.%s != \"\" {\n", f.Name)
		fmt.Fprintf(buf, "\t\tv, err := %s.%s(x.%s)\n", s.Service, method, f.Name)
		buf.WriteString("\t\tif err != nil {\n")
		fmt.Fprintf(buf, "\t\t\treturn %s{}, fmt.Errorf(\"%s field %s: %%w\", err)\n", s.Name, verb, f.Name)
		buf.WriteString("\t\t}\n")
		fmt.Fprintf(buf, "\t\tout.%s = v\n", f.Name)
		buf.WriteString("\t}\n")

	case scan.ShapeOptional:
		// Absent short-circuits; a present value is re-wrapped in a fresh
		// pointer so the copy never aliases the receiver.
		fmt.Fprintf(buf, "\tif x.%s != nil {\n", f.Name)
		fmt.Fprintf(buf, "\t\tv := *x.%s\n", f.Name)
		buf.WriteString("\t\tif v != \"\" {\n")
		fmt.Fprintf(buf, "\t\t\ttv, err := %s.%s(v)\n", s.Service, method)
		buf.WriteString("\t\t\tif err != nil {\n")
		fmt.Fprintf(buf, "\t\t\t\treturn %s{}, fmt.Errorf(\"%s field %s: %%w\", err)\n", s.Name, verb, f.Name)
		buf.WriteString("\t\t\t}\n")
		buf.WriteString("\t\t\tv = tv\n")
		buf.WriteString("\t\t}\n")
		fmt.Fprintf(buf, "\t\tout.%s = &v\n", f.Name)
		buf.WriteString("\t}\n")

	case scan.ShapeList:
		fmt.Fprintf(buf, "\tif len(x.%s) > 0 {\n", f.Name)
		fmt.Fprintf(buf, "\t\tvs := make([]string, len(x.%s))\n", f.Name)
		fmt.Fprintf(buf, "\t\tfor i, v := range x.%s {\n", f.Name)
		buf.WriteString("\t\t\tif v == \"\" {\n\t\t\t\tcontinue\n\t\t\t}\n")
		fmt.Fprintf(buf, "\t\t\ttv, err := %s.%s(v)\n", s.Service, method)
		buf.WriteString("\t\t\tif err != nil {\n")
		fmt.Fprintf(buf, "\t\t\t\treturn %s{}, fmt.Errorf(\"%s field %s[%%d]: %%w\", i, err)\n", s.Name, verb, f.Name)
		buf.WriteString("\t\t\t}\n")
		buf.WriteString("\t\t\tvs[i] = tv\n")
		buf.WriteString("\t\t}\n")
		fmt.Fprintf(buf, "\t\tout.%s = vs\n", f.Name)
		buf.WriteString("\t}\n")
	}
}

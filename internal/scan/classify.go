package scan

import (
	"go/ast"
	"go/parser"
	"sort"
	"strings"

	"github.com/zoobzio/cryptkeeper"
)

// classifyShape maps a declared field type to its shape. Only the three
// literal text forms are transformable; named string types, byte slices, and
// everything else degrade to ShapeUnsupported.
func classifyShape(expr ast.Expr) Shape {
	switch t := expr.(type) {
	case *ast.Ident:
		if t.Name == "string" {
			return ShapePlain
		}
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok && id.Name == "string" {
			return ShapeOptional
		}
	case *ast.ArrayType:
		if t.Len != nil {
			return ShapeUnsupported
		}
		if id, ok := t.Elt.(*ast.Ident); ok && id.Name == "string" {
			return ShapeList
		}
	}
	return ShapeUnsupported
}

// exprImports determines which imports a directive expression needs in the
// generated file. Every base identifier in the expression must resolve to
// either a file import (carried over) or a package-level declaration
// (nothing to carry); anything else is an unresolved reference and fails
// generation.
func exprImports(structName, expr string, imports map[string]Import, pkgScope map[string]bool) ([]Import, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, cryptkeeper.NewDirectiveError(cryptkeeper.ErrUnknownDirective, structName, "", expr)
	}

	seen := make(map[string]Import)
	var bad error

	// resolve records the import a base identifier needs, or flags it as
	// unresolved. Selector targets (the .Sel side) are never base names and
	// are skipped by the walk below.
	resolve := func(name string) {
		if bad != nil || pkgScope[name] {
			return
		}
		if imp, ok := imports[name]; ok {
			seen[imp.Path] = imp
			return
		}
		bad = cryptkeeper.NewDirectiveError(cryptkeeper.ErrUnresolvedImport, structName, "", name)
	}

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		ast.Inspect(n, func(n ast.Node) bool {
			if bad != nil {
				return false
			}
			switch e := n.(type) {
			case *ast.SelectorExpr:
				if id, ok := e.X.(*ast.Ident); ok {
					if imp, ok := imports[id.Name]; ok {
						seen[imp.Path] = imp
					} else {
						resolve(id.Name)
					}
					return false
				}
				walk(e.X)
				return false
			case *ast.Ident:
				resolve(e.Name)
				return false
			}
			return true
		})
	}
	walk(node)

	if bad != nil {
		return nil, bad
	}

	out := make([]Import, 0, len(seen))
	for _, imp := range seen {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// fileImports builds the import table of one file, keyed by local name.
// Blank and dot imports cannot qualify an expression and are skipped.
func fileImports(file *ast.File) map[string]Import {
	table := make(map[string]Import)

	for _, spec := range file.Imports {
		path := strings.Trim(spec.Path.Value, `"`)

		if spec.Name != nil {
			name := spec.Name.Name
			if name == "_" || name == "." {
				continue
			}
			table[name] = Import{Name: name, Path: path}
			continue
		}

		// Default local name: last path segment. Without type information
		// this is the standard heuristic; a mismatched package name needs
		// an explicit alias at the import site.
		name := path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			name = path[i+1:]
		}
		table[name] = Import{Path: path}
	}

	return table
}

// packageScope collects every package-level declared name across the files
// so directive expressions can reference unqualified identifiers.
func packageScope(files []*ast.File) map[string]bool {
	scope := make(map[string]bool)

	for _, file := range files {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					scope[d.Name.Name] = true
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						scope[s.Name.Name] = true
					case *ast.ValueSpec:
						for _, name := range s.Names {
							scope[name.Name] = true
						}
					}
				}
			}
		}
	}

	return scope
}

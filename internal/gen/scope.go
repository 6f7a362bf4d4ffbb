package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edlx-labs/edlx/internal/declare"
)

// packageScope lists the names the rest of the package already uses.
type packageScope struct {
	decls   map[string]bool // package block: types, funcs, vars, consts
	imports map[string]bool // file blocks of the other files
}

// scanPackage parses the non-test Go files in dir, skipping a previously
// generated file, and records their top-level names.
func scanPackage(dir string) (*packageScope, error) {
	s := &packageScope{decls: map[string]bool{}, imports: map[string]bool{}}

	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	for _, p := range matches {
		base := filepath.Base(p)
		if base == declare.GeneratedFileName || strings.HasSuffix(base, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, p, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		s.addFile(f)
	}
	return s, nil
}

func (s *packageScope) addFile(f *ast.File) {
	for _, imp := range f.Imports {
		name := ""
		if imp.Name != nil {
			name = imp.Name.Name
		} else if p, err := strconv.Unquote(imp.Path.Value); err == nil {
			name = path.Base(p)
		}
		if name != "" && name != "_" && name != "." {
			s.imports[name] = true
		}
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name != "init" {
				s.decls[d.Name.Name] = true
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					s.decls[sp.Name.Name] = true
				case *ast.ValueSpec:
					for _, id := range sp.Names {
						if id.Name != "_" {
							s.decls[id.Name] = true
						}
					}
				}
			}
		}
	}
}

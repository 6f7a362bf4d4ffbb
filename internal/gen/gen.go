package gen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/edlx-labs/edlx/internal/declare"
	"github.com/edlx-labs/edlx/internal/resolve"
)

//go:embed templates/edl_gen.go.tmpl
var templateFS embed.FS

// ErrStale is returned by Check when the generated file is missing or out of date.
var ErrStale = errors.New("generated file is out of date")

var fileTemplate = template.Must(
	template.New("edl_gen.go.tmpl").
		Funcs(template.FuncMap{"quote": quote}).
		ParseFS(templateFS, "templates/edl_gen.go.tmpl"),
)

type fileData struct {
	Version   string
	DeclFile  string
	Package   string
	Namespace string
	EDL       string // name the edl package is imported as
	Imports   []importSpec
	Deps      []string // import aliases, one per use entry
	Locals    []localData
}

type importSpec struct {
	Alias string
	Path  string
}

type localData struct {
	Const    string
	Name     string
	Data     string
	Declared string
}

// Path returns the location of the generated file for n.
func Path(n *resolve.Node) string {
	return filepath.Join(n.Dir, declare.GeneratedFileName)
}

// Render produces the formatted source of edl_gen.go for n. Every declared
// file is read now; a missing, unreadable or non-text file fails the render
// with an error naming it.
func Render(n *resolve.Node, version string) ([]byte, error) {
	if err := n.Decl.CheckRequires(version); err != nil {
		return nil, fmt.Errorf("%s: %w", n.DeclPath, err)
	}

	locals, err := resolve.Locals(n)
	if err != nil {
		return nil, err
	}

	data := fileData{
		Version:   version,
		DeclFile:  declare.FileName,
		Package:   n.Package,
		Namespace: n.Namespace,
	}

	scope, err := scanPackage(n.Dir)
	if err != nil {
		return nil, err
	}
	if scope.decls["EDL"] || scope.imports["EDL"] {
		return nil, fmt.Errorf("%s: package %s already declares EDL", n.DeclPath, n.Package)
	}

	// Import aliases live in the file block and must avoid package-level
	// names. Constants live in the package block and must also avoid the
	// imports of the other files.
	aliasTaken := map[string]bool{"EDL": true}
	constTaken := map[string]bool{"EDL": true}
	for name := range scope.decls {
		aliasTaken[name] = true
		constTaken[name] = true
	}
	for name := range scope.imports {
		constTaken[name] = true
	}

	data.EDL = uniqueAlias("edl", aliasTaken)
	aliases := make(map[string]string) // import path -> alias
	for _, dep := range n.Deps {
		if dep.ImportPath == "" {
			return nil, fmt.Errorf("%s: dependency %s is not inside a Go module", n.DeclPath, dep.Dir)
		}
		alias, ok := aliases[dep.ImportPath]
		if !ok {
			alias = uniqueAlias(dep.Package, aliasTaken)
			aliases[dep.ImportPath] = alias
			data.Imports = append(data.Imports, importSpec{Alias: alias, Path: dep.ImportPath})
		}
		data.Deps = append(data.Deps, alias)
	}
	for _, alias := range aliases {
		constTaken[alias] = true
	}
	constTaken[data.EDL] = true

	for i, l := range locals {
		data.Locals = append(data.Locals, localData{
			Const:    uniqueAlias("edlFile"+strconv.Itoa(i), constTaken),
			Name:     l.EDL.Name,
			Data:     l.EDL.Data,
			Declared: strings.Join(strings.Fields(l.Declared), " "),
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template for %s: %w", n.Dir, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for %s: %w", n.Dir, err)
	}
	return src, nil
}

// Write renders n and writes edl_gen.go when its contents changed. It
// reports the path and whether the file was rewritten.
func Write(n *resolve.Node, version string) (string, bool, error) {
	src, err := Render(n, version)
	if err != nil {
		return "", false, err
	}

	path := Path(n)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, src) {
		return path, false, nil
	}
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, true, nil
}

// Check reports ErrStale when the committed edl_gen.go differs from what
// Render would produce. The tool version stamped in the header is ignored.
func Check(n *resolve.Node, version string) error {
	src, err := Render(n, version)
	if err != nil {
		return err
	}

	path := Path(n)
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w (missing)", path, ErrStale)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if !bytes.Equal(stripHeader(existing), stripHeader(src)) {
		return fmt.Errorf("%s: %w", path, ErrStale)
	}
	return nil
}

func stripHeader(src []byte) []byte {
	if bytes.HasPrefix(src, []byte("// Code generated by ")) {
		if i := bytes.IndexByte(src, '\n'); i >= 0 {
			return src[i+1:]
		}
	}
	return src
}

// uniqueAlias returns base, or base followed by the smallest number >= 2,
// that is not yet taken, and marks it taken.
func uniqueAlias(base string, taken map[string]bool) string {
	alias := base
	for i := 2; taken[alias]; i++ {
		alias = base + strconv.Itoa(i)
	}
	taken[alias] = true
	return alias
}

// quote renders s as a Go string literal, preferring a raw string when the
// contents can be represented verbatim.
func quote(s string) string {
	if strings.ContainsAny(s, "`\r\x00\ufeff") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

package resolve

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/edlx-labs/edlx/internal/declare"
)

// ErrCycle is returned when declarations use each other in a loop.
var ErrCycle = errors.New("dependency cycle")

// Node is one declaring package in the graph.
type Node struct {
	Dir        string // absolute package directory
	DeclPath   string // absolute path of edl.yaml
	Decl       *declare.Declaration
	Package    string // Go package name of the generated file
	Namespace  string // namespace stamped on local descriptors
	ImportPath string // empty when the directory is not inside a Go module
	Deps       []*Node
}

// Name returns a short label for the node.
func (n *Node) Name() string {
	if n.ImportPath != "" {
		return n.ImportPath
	}
	return n.Dir
}

type loader struct {
	nodes   map[string]*Node
	loading []string
	modules *moduleCache
}

// Load resolves the declaration in dir and, recursively, every package it
// uses. A package reached through several paths is loaded once and shared.
func Load(dir string) (*Node, error) {
	l := &loader{
		nodes:   make(map[string]*Node),
		modules: newModuleCache(),
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	return l.load(abs)
}

func (l *loader) load(dir string) (*Node, error) {
	for i, d := range l.loading {
		if d == dir {
			cycle := append(append([]string{}, l.loading[i:]...), dir)
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
		}
	}
	if n, ok := l.nodes[dir]; ok {
		return n, nil
	}

	declPath, err := declare.Find(dir)
	if err != nil {
		return nil, err
	}
	decl, err := declare.Load(declPath)
	if err != nil {
		return nil, err
	}

	pkg, err := packageName(dir, decl.Package)
	if err != nil {
		return nil, err
	}
	importPath, err := l.modules.importPath(dir)
	if err != nil {
		return nil, err
	}

	n := &Node{
		Dir:        dir,
		DeclPath:   declPath,
		Decl:       decl,
		Package:    pkg,
		Namespace:  decl.Namespace,
		ImportPath: importPath,
	}
	if n.Namespace == "" {
		n.Namespace = pkg
	}

	l.loading = append(l.loading, dir)
	for _, use := range decl.Use {
		depDir := use
		if !filepath.IsAbs(depDir) {
			depDir = filepath.Join(dir, filepath.FromSlash(use))
		}
		depDir = filepath.Clean(depDir)
		if _, err := declare.Find(depDir); err != nil {
			return nil, fmt.Errorf("%s: unresolved use %q: %w", declPath, use, err)
		}
		dep, err := l.load(depDir)
		if err != nil {
			return nil, err
		}
		if dep.Package == "main" {
			return nil, fmt.Errorf("%s: use %q refers to a main package", declPath, use)
		}
		n.Deps = append(n.Deps, dep)
	}
	l.loading = l.loading[:len(l.loading)-1]

	l.nodes[dir] = n
	return n, nil
}

// Walk calls fn for every distinct node reachable from root, dependencies
// before dependents.
func Walk(root *Node, fn func(*Node) error) error {
	return walk(root, make(map[*Node]bool), fn)
}

func walk(n *Node, seen map[*Node]bool, fn func(*Node) error) error {
	if n == nil || seen[n] {
		return nil
	}
	seen[n] = true
	for _, dep := range n.Deps {
		if err := walk(dep, seen, fn); err != nil {
			return err
		}
	}
	return fn(n)
}

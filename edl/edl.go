package edl

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// EDL is a single named EDL file contributed by a package.
type EDL struct {
	// Namespace identifies the contributing package so that identically
	// named files from different packages can be told apart.
	Namespace string `json:"namespace" yaml:"namespace"`
	// Name is the final component of the declared path, extension included.
	Name string `json:"name" yaml:"name"`
	// Data is the file contents as they were when the package was generated.
	Data string `json:"data" yaml:"data"`
}

// Func is the signature of a package's generated aggregation function.
type Func func() []EDL

var (
	// ErrBadPath is returned when a declared path has no usable final component.
	ErrBadPath = errors.New("path has no file name")
	// ErrBadNamespace is returned when a namespace is empty or is not a
	// single path component.
	ErrBadNamespace = errors.New("namespace must be a single path component")
	// ErrNotText is returned when file contents are not valid UTF-8.
	ErrNotText = errors.New("contents are not valid UTF-8 text")
)

// Key returns "namespace/name".
func (e EDL) Key() string {
	return e.Namespace + "/" + e.Name
}

// New builds a descriptor for the file at path, checking the invariants that
// the generator relies on. The namespace must be one path component, the
// path must have a usable base name and the contents must be text.
func New(namespace, path, data string) (EDL, error) {
	if name, err := BaseName(namespace); err != nil || name != namespace {
		return EDL{}, fmt.Errorf("describing %s: namespace %q: %w", path, namespace, ErrBadNamespace)
	}
	name, err := BaseName(path)
	if err != nil {
		return EDL{}, err
	}
	if !utf8.ValidString(data) {
		return EDL{}, fmt.Errorf("describing %s: %w", path, ErrNotText)
	}
	return EDL{Namespace: namespace, Name: name, Data: data}, nil
}

// BaseName returns the final component of path. Both '/' and '\' are treated
// as separators so that declarations written on Windows produce the same
// names. Trailing separators are ignored.
func BaseName(path string) (string, error) {
	p := strings.TrimRight(strings.ReplaceAll(path, `\`, "/"), "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	if p == "" || p == "." || p == ".." {
		return "", fmt.Errorf("%q: %w", path, ErrBadPath)
	}
	return p, nil
}

// Collect concatenates the results of deps, in order, and then locals. The
// returned slice is always freshly allocated; no entries are merged or
// dropped.
func Collect(deps []Func, locals ...EDL) []EDL {
	output := []EDL{}
	for _, dep := range deps {
		output = append(output, dep()...)
	}
	return append(output, locals...)
}

// Duplicate describes a key that occurs more than once in a sequence.
type Duplicate struct {
	Key string
	// Indexes are the positions of every occurrence, in order.
	Indexes []int
	// SameData is true when every occurrence carries identical contents.
	SameData bool
}

// Duplicates reports keys that occur more than once in edls, ordered by
// their first occurrence.
func Duplicates(edls []EDL) []Duplicate {
	positions := make(map[string][]int)
	var order []string
	for i, e := range edls {
		k := e.Key()
		if _, ok := positions[k]; !ok {
			order = append(order, k)
		}
		positions[k] = append(positions[k], i)
	}

	var dups []Duplicate
	for _, k := range order {
		idx := positions[k]
		if len(idx) < 2 {
			continue
		}
		same := true
		for _, i := range idx[1:] {
			if edls[i].Data != edls[idx[0]].Data {
				same = false
				break
			}
		}
		dups = append(dups, Duplicate{Key: k, Indexes: idx, SameData: same})
	}
	return dups
}

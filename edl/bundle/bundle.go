// Package bundle merges an aggregated EDL sequence into the forms an EDL
// compiler consumes: a directory tree with one subdirectory per namespace, or
// a single concatenated text.
package bundle

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/edlx-labs/edlx/edl"
	"github.com/spf13/afero"
)

// Result holds the outcome of WriteTree.
type Result struct {
	Dir   string
	Files []string // written paths, in sequence order, one per distinct key
	// Warnings collects keys that appeared more than once. The later
	// occurrence is the one left on disk.
	Warnings []string
}

// WriteTree writes each descriptor to dir/<namespace>/<name> on fsys.
func WriteTree(fsys afero.Fs, dir string, edls []edl.EDL) (*Result, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating bundle directory %s: %w", dir, err)
	}

	result := &Result{Dir: dir}
	written := make(map[string]bool)
	for _, e := range edls {
		if !isComponent(e.Name) {
			return nil, fmt.Errorf("descriptor %s: invalid name", e.Key())
		}
		if !isComponent(e.Namespace) {
			return nil, fmt.Errorf("descriptor %s: invalid namespace", e.Key())
		}

		nsDir := filepath.Join(dir, e.Namespace)
		if err := fsys.MkdirAll(nsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", nsDir, err)
		}

		path := filepath.Join(nsDir, e.Name)
		if err := afero.WriteFile(fsys, path, []byte(e.Data), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}

		if written[path] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s declared more than once; keeping the last occurrence", e.Key()))
			continue
		}
		written[path] = true
		result.Files = append(result.Files, path)
	}
	return result, nil
}

// Concat writes every descriptor's data to w, each preceded by a
// "// <namespace>/<name>" banner line.
func Concat(w io.Writer, edls []edl.EDL) error {
	for i, e := range edls {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "// %s\n", e.Key()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, e.Data); err != nil {
			return err
		}
		if n := len(e.Data); n > 0 && e.Data[n-1] != '\n' {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// IncludePaths returns dir/<namespace> for every namespace in edls, in order
// of first appearance. The result is suitable as a list of EDL search paths.
func IncludePaths(dir string, edls []edl.EDL) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, e := range edls {
		if seen[e.Namespace] {
			continue
		}
		seen[e.Namespace] = true
		paths = append(paths, filepath.Join(dir, e.Namespace))
	}
	return paths
}

// isComponent reports whether s can be used as a single path element.
func isComponent(s string) bool {
	name, err := edl.BaseName(s)
	return err == nil && name == s
}

package resolve

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edlx-labs/edlx/edl"
)

// Local is a declared resource read from disk.
type Local struct {
	Declared string // path as written in edl.yaml
	Path     string // resolved path
	EDL      edl.EDL
}

// Locals reads the node's own declared resources in declaration order.
// Every failure names the declared path and the declaration it came from.
func Locals(n *Node) ([]Local, error) {
	locals := make([]Local, 0, len(n.Decl.EDL))
	for _, declared := range n.Decl.EDL {
		// Both separators are accepted, matching edl.BaseName.
		path := filepath.FromSlash(strings.ReplaceAll(declared, `\`, "/"))
		if !filepath.IsAbs(path) {
			path = filepath.Join(n.Dir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: reading EDL %q: %w", n.DeclPath, declared, err)
		}
		e, err := edl.New(n.Namespace, declared, string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: EDL %q: %w", n.DeclPath, declared, err)
		}
		locals = append(locals, Local{Declared: declared, Path: path, EDL: e})
	}
	return locals, nil
}

// Collect returns the node's full descriptor sequence: each dependency's
// sequence in declaration order, then the node's own descriptors. A
// dependency reached more than once contributes every time.
func Collect(n *Node) ([]edl.EDL, error) {
	output := []edl.EDL{}
	for _, dep := range n.Deps {
		sub, err := Collect(dep)
		if err != nil {
			return nil, err
		}
		output = append(output, sub...)
	}

	locals, err := Locals(n)
	if err != nil {
		return nil, err
	}
	for _, l := range locals {
		output = append(output, l.EDL)
	}
	return output, nil
}

// PrintTree writes the dependency tree rooted at n. A package that already
// appeared earlier in the output is marked and not expanded again.
func PrintTree(w io.Writer, n *Node, label func(*Node) string) {
	if label == nil {
		label = defaultLabel
	}
	printNode(w, n, "", true, true, label, make(map[*Node]bool))
}

func defaultLabel(n *Node) string {
	return fmt.Sprintf("%s (%s, %d local)", n.Namespace, n.Name(), len(n.Decl.EDL))
}

func printNode(w io.Writer, n *Node, prefix string, isRoot, isLast bool, label func(*Node) string, seen map[*Node]bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}

	text := label(n)
	repeated := seen[n]
	if repeated {
		text += " (repeated)"
	}
	seen[n] = true

	if isRoot {
		fmt.Fprintf(w, "%s\n", text)
	} else {
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, text)
	}
	if repeated {
		return
	}

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, dep := range n.Deps {
		printNode(w, dep, childPrefix, false, i == len(n.Deps)-1, label, seen)
	}
}

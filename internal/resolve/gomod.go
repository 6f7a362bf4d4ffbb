package resolve

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/mod/modfile"
)

// moduleCache maps directories to the module that contains them.
type moduleCache struct {
	roots map[string]moduleRoot // keyed by directory holding go.mod
}

type moduleRoot struct {
	dir  string
	path string
}

func newModuleCache() *moduleCache {
	return &moduleCache{roots: make(map[string]moduleRoot)}
}

// importPath returns the import path of the package in dir, derived from the
// nearest enclosing go.mod. It returns "" when dir is not inside a module.
func (c *moduleCache) importPath(dir string) (string, error) {
	root, ok, err := c.find(dir)
	if err != nil || !ok {
		return "", err
	}
	rel, err := filepath.Rel(root.dir, dir)
	if err != nil {
		return "", fmt.Errorf("relating %s to module root %s: %w", dir, root.dir, err)
	}
	if rel == "." {
		return root.path, nil
	}
	return root.path + "/" + filepath.ToSlash(rel), nil
}

func (c *moduleCache) find(dir string) (moduleRoot, bool, error) {
	for d := dir; ; {
		if root, ok := c.roots[d]; ok {
			return root, true, nil
		}
		gomod := filepath.Join(d, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			f, err := modfile.ParseLax(gomod, data, nil)
			if err != nil {
				return moduleRoot{}, false, fmt.Errorf("parsing %s: %w", gomod, err)
			}
			if f.Module == nil || f.Module.Mod.Path == "" {
				return moduleRoot{}, false, fmt.Errorf("%s has no module directive", gomod)
			}
			root := moduleRoot{dir: d, path: f.Module.Mod.Path}
			c.roots[d] = root
			return root, true, nil
		}
		if !os.IsNotExist(err) {
			return moduleRoot{}, false, fmt.Errorf("reading %s: %w", gomod, err)
		}

		parent := filepath.Dir(d)
		if parent == d {
			return moduleRoot{}, false, nil
		}
		d = parent
	}
}

// packageName determines the package clause for the generated file. An
// explicit declared name must agree with the existing non-test Go files;
// otherwise the name is taken from those files, or derived from the
// directory name when there are none.
func packageName(dir, declared string) (string, error) {
	existing, err := existingPackage(dir)
	if err != nil {
		return "", err
	}
	switch {
	case declared != "" && existing != "" && declared != existing:
		return "", fmt.Errorf("%s: declared package %q but Go files use %q", dir, declared, existing)
	case declared != "":
		return declared, nil
	case existing != "":
		return existing, nil
	default:
		return sanitizePackage(filepath.Base(dir)), nil
	}
}

func existingPackage(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	for _, path := range matches {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly)
		if err != nil {
			return "", fmt.Errorf("reading package clause of %s: %w", path, err)
		}
		return f.Name.Name, nil
	}
	return "", nil
}

// sanitizePackage turns a directory name such as "sgx-edl" into a valid
// package name ("sgx_edl").
func sanitizePackage(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}

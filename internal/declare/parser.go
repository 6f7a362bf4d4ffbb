package declare

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// ErrNotFound is returned when a directory has no declaration file.
var ErrNotFound = errors.New("no " + FileName + " found")

// Find returns the path of the declaration file in dir.
func Find(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", dir, ErrNotFound)
		}
		return "", fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return path, nil
}

// InvalidError reports schema violations found in a declaration file.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Sprintf("%s: invalid declaration: %s", e.Path, strings.Join(msgs, "; "))
}

// Load reads a declaration file, validates it against the schema and decodes
// it. Schema violations are returned as an *InvalidError.
func Load(path string) (*Declaration, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing declaration %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Path: path, Issues: result.Issues}
	}
	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing declaration %s: %w", path, err)
	}
	return d, nil
}

// Parse reads and decodes a declaration file. Unknown fields are rejected;
// an empty file is a valid declaration that contributes nothing.
func Parse(path string) (*Declaration, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing declaration %s: %w", path, err)
	}
	return d, nil
}

// Decode decodes declaration YAML from memory.
func Decode(data []byte) (*Declaration, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Declaration
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &d, nil
}

// Encode renders a declaration as YAML.
func Encode(d *Declaration) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding declaration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding declaration: %w", err)
	}
	return buf.Bytes(), nil
}

// CheckRequires verifies that version satisfies the declaration's requires
// constraint. Development builds (versions that are not valid semver, such
// as "dev") satisfy every constraint, but the constraint itself must parse.
func (d *Declaration) CheckRequires(version string) error {
	if d.Requires == "" {
		return nil
	}
	c, err := semver.NewConstraint(d.Requires)
	if err != nil {
		return fmt.Errorf("parsing requires constraint %q: %w", d.Requires, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil
	}
	if !c.Check(v) {
		return fmt.Errorf("declaration requires edlx %s, running %s", d.Requires, version)
	}
	return nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to an isolated consumer module.
type testEnv struct {
	RepoRoot  string // this repository, wired in via a replace directive
	ModuleDir string // temporary module declaring EDL packages
}

// setupTestEnv creates a temporary Go module that depends on this repository
// through a replace directive. Tests that need the go command are skipped when
// it is not on PATH.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("resolving repository root: %v", err)
	}

	env := &testEnv{
		RepoRoot:  root,
		ModuleDir: t.TempDir(),
	}
	t.Setenv("HOME", t.TempDir())

	writeFile(t, filepath.Join(env.ModuleDir, "go.mod"), `module example.com/enclave

go 1.21

require github.com/edlx-labs/edlx v0.0.0

replace github.com/edlx-labs/edlx => `+filepath.ToSlash(root)+"\n")

	return env
}

// setupSGX lays out the shared EDL directory and two declaring packages:
// sgx, which declares the four standard files, and app, which re-exports sgx
// and adds one file of its own.
func setupSGX(t *testing.T, moduleDir string) {
	t.Helper()

	for _, name := range []string{"sgx_tstd.edl", "sgx_stdio.edl", "sgx_backtrace.edl", "sgx_time.edl"} {
		writeFile(t, filepath.Join(moduleDir, "edl", name), "enclave {\n    // "+name+"\n};\n")
	}
	writeFile(t, filepath.Join(moduleDir, "sgx", "edl.yaml"), `namespace: sgx_edl
edl:
  - ../edl/sgx_tstd.edl
  - ../edl/sgx_stdio.edl
  - ../edl/sgx_backtrace.edl
  - ../edl/sgx_time.edl
`)
	writeFile(t, filepath.Join(moduleDir, "app", "edl.yaml"), `use:
  - ../sgx
edl:
  - app.edl
`)
	writeFile(t, filepath.Join(moduleDir, "app", "app.edl"), "enclave {\n    from \"sgx_tstd.edl\" import *;\n};\n")
}

// goCmd runs the go command inside dir and returns its combined output.
func goCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("go", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOFLAGS=-mod=mod", "GOWORK=off")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

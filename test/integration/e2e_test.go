//go:build integration

package integration_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edlx-labs/edlx/edl"
	"github.com/edlx-labs/edlx/internal/gen"
	"github.com/edlx-labs/edlx/internal/resolve"
	"github.com/google/go-cmp/cmp"
)

const printMain = `package main

import (
	"encoding/json"
	"os"

	"example.com/enclave/app"
)

func main() {
	_ = json.NewEncoder(os.Stdout).Encode(app.EDL())
}
`

// TestGeneratedPackagesCompileAndAggregate tests the complete flow:
// declare -> generate every package -> compile a consumer -> compare EDL()
// with what the resolver collects from disk.
func TestGeneratedPackagesCompileAndAggregate(t *testing.T) {
	env := setupTestEnv(t)
	setupSGX(t, env.ModuleDir)

	root, err := resolve.Load(filepath.Join(env.ModuleDir, "app"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Step 1: Generate edl_gen.go for app and everything it uses.
	err = resolve.Walk(root, func(n *resolve.Node) error {
		_, _, err := gen.Write(n, "dev")
		return err
	})
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	assertFileExists(t, filepath.Join(env.ModuleDir, "sgx", "edl_gen.go"))
	assertFileExists(t, filepath.Join(env.ModuleDir, "app", "edl_gen.go"))

	// Step 2: Compile and run a consumer of app.EDL().
	writeFile(t, filepath.Join(env.ModuleDir, "cmd", "print", "main.go"), printMain)
	goCmd(t, env.ModuleDir, "mod", "tidy")
	out := goCmd(t, env.ModuleDir, "run", "./cmd/print")

	var got []edl.EDL
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}

	// Step 3: The compiled sequence equals the collected one.
	want, err := resolve.Collect(root)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EDL() mismatch (-want +got):\n%s", diff)
	}

	wantKeys := []string{
		"sgx_edl/sgx_tstd.edl",
		"sgx_edl/sgx_stdio.edl",
		"sgx_edl/sgx_backtrace.edl",
		"sgx_edl/sgx_time.edl",
		"app/app.edl",
	}
	var gotKeys []string
	for _, e := range got {
		gotKeys = append(gotKeys, e.Key())
	}
	if diff := cmp.Diff(wantKeys, gotKeys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

// TestContentsFrozenAtGenerateTime verifies that edits to an EDL file after
// generation do not change the compiled output until the package is
// regenerated, and that Check flags the drift.
func TestContentsFrozenAtGenerateTime(t *testing.T) {
	env := setupTestEnv(t)
	setupSGX(t, env.ModuleDir)

	root, err := resolve.Load(filepath.Join(env.ModuleDir, "app"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := resolve.Walk(root, func(n *resolve.Node) error {
		_, _, err := gen.Write(n, "dev")
		return err
	}); err != nil {
		t.Fatalf("generating: %v", err)
	}

	appEDL := filepath.Join(env.ModuleDir, "app", "app.edl")
	if err := os.WriteFile(appEDL, []byte("changed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := gen.Check(root, "dev"); !errors.Is(err, gen.ErrStale) {
		t.Errorf("Check after edit = %v, want ErrStale", err)
	}

	writeFile(t, filepath.Join(env.ModuleDir, "cmd", "print", "main.go"), printMain)
	goCmd(t, env.ModuleDir, "mod", "tidy")
	out := goCmd(t, env.ModuleDir, "run", "./cmd/print")

	var got []edl.EDL
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if last := got[len(got)-1]; last.Data == "changed\n" {
		t.Error("compiled output should keep the contents captured at generate time")
	}
}

// TestMissingFileFailsGeneration verifies that a declaration naming a missing
// file produces no generated code.
func TestMissingFileFailsGeneration(t *testing.T) {
	env := setupTestEnv(t)
	writeFile(t, filepath.Join(env.ModuleDir, "broken", "edl.yaml"), "edl:\n  - nope.edl\n")

	n, err := resolve.Load(filepath.Join(env.ModuleDir, "broken"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, _, err := gen.Write(n, "dev"); err == nil {
		t.Fatal("expected generation to fail")
	}
	assertFileNotExists(t, filepath.Join(env.ModuleDir, "broken", "edl_gen.go"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	if got := Get(KeyLogLevel); got != "warn" {
		t.Errorf("log_level default = %q, want warn", got)
	}

	t.Setenv("EDLX_LOG_LEVEL", "debug")
	if got := Get(KeyLogLevel); got != "debug" {
		t.Errorf("log_level with env = %q, want debug", got)
	}
}

func TestSetWritesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	if err := Set(KeyBundleDir, "out/edl"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".edlx", "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if len(data) == 0 {
		t.Error("config file is empty")
	}

	viper.Reset()
	Load()
	if got := Get(KeyBundleDir); got != "out/edl" {
		t.Errorf("bundle_dir after reload = %q, want out/edl", got)
	}
}

func TestSetUnknownKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := Set("nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

package dirs

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultOutputDirUnderDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	data, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	out, err := DefaultOutputDir()
	if err != nil {
		t.Fatalf("DefaultOutputDir() error: %v", err)
	}
	if !strings.HasPrefix(out, data) {
		t.Errorf("DefaultOutputDir() = %q, want under %q", out, data)
	}
	if filepath.Base(out) != "output" {
		t.Errorf("DefaultOutputDir() = %q, want an output subdirectory", out)
	}
}

func TestDirsCarryAppName(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if filepath.Base(cfg) != AppName() {
		t.Errorf("ConfigDir() = %q, want leaf %q", cfg, AppName())
	}
	cache, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if filepath.Base(cache) != AppName() {
		t.Errorf("CacheDir() = %q, want leaf %q", cache, AppName())
	}
}

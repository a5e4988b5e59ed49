package dispatchcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FastPathPrefix != 0 || len(cfg.Ignore) != 0 {
		t.Errorf("expected zero Config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typedfn.yaml")
	contents := "fastPathPrefix: 4\nignore:\n  - \"null\"\n  - \"undefined\"\nlisten: \":7070\"\ncache:\n  path: \"./cache.db\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FastPathPrefix != 4 {
		t.Errorf("FastPathPrefix = %d, want 4", cfg.FastPathPrefix)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "null" {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("Listen = %q, want :7070", cfg.Listen)
	}
	if cfg.Cache.Path != "./cache.db" {
		t.Errorf("Cache.Path = %q, want ./cache.db", cfg.Cache.Path)
	}
}

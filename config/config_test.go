package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rollseq/rollseq/config"
)

func TestLoadMissingGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("maxHistory: 50\nlogLevel: debug\n"), 0644)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TimeBase != 480 || cfg.MaxHistory != 50 {
		t.Errorf("got %+v", cfg)
	}
	if l, err := cfg.Level(); err != nil || l != slog.LevelDebug {
		t.Errorf("Level() = %v, %v; expected debug", l, err)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	for _, content := range []string{"timeBase: [1", "timeBase: -1"} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		os.WriteFile(path, []byte(content), 0644)
		if _, err := config.Load(path); err == nil {
			t.Errorf("Load(%q) succeeded", content)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := &config.Config{TimeBase: 960, MaxHistory: 10, ProjectDir: "/tmp/p", LogLevel: "warn"}
	if err := want.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	// RecoveryFile is empty in the file, so the default stays
	want.RecoveryFile = config.Default().RecoveryFile
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	if _, err := cfg.Level(); err == nil {
		t.Errorf("Level accepted %q", cfg.LogLevel)
	}
}

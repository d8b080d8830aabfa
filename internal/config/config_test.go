package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chorus/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	// t.Chdir requires Go 1.24; do the equivalent manually.
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "chorus")
	if cfg.Paths.StateDir != wantState {
		t.Errorf("state dir = %q, want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Processing.Feature != "hpcp" {
		t.Errorf("feature = %q, want hpcp", cfg.Processing.Feature)
	}
	if cfg.Processing.BoundariesID != "gt" {
		t.Errorf("boundaries id = %q, want gt", cfg.Processing.BoundariesID)
	}
	if cfg.Processing.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Processing.Workers)
	}
	if cfg.Processing.Seed != 123 {
		t.Errorf("seed = %d, want 123", cfg.Processing.Seed)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "chorus.toml")
	body := `
[processing]
feature = "mfcc"
workers = 2
seed = 42

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Processing.Feature != "mfcc" || cfg.Processing.Workers != 2 || cfg.Processing.Seed != 42 {
		t.Errorf("processing = %+v", cfg.Processing)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Unset sections keep defaults.
	if cfg.Dataset.AudioDir != "audio" {
		t.Errorf("audio dir = %q", cfg.Dataset.AudioDir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	stateDir := filepath.Join(t.TempDir(), "state")
	t.Setenv("CHORUS_STATE_DIR", stateDir)
	t.Setenv("CHORUS_LOG_LEVEL", "debug")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.StateDir != stateDir {
		t.Errorf("state dir = %q, want env override %q", cfg.Paths.StateDir, stateDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want env override debug", cfg.Logging.Level)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad feature",
			body: "[processing]\nfeature = \"spectrogram\"\n",
			want: "processing.feature",
		},
		{
			name: "bad log format",
			body: "[logging]\nformat = \"yaml\"\n",
			want: "logging.format",
		},
		{
			name: "bad log level",
			body: "[logging]\nlevel = \"verbose\"\n",
			want: "logging.level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "chorus.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestCreateSampleRoundtrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample not found after CreateSample")
	}
	// The sample documents the compiled defaults.
	if cfg.Processing.Feature != "hpcp" || cfg.Processing.Seed != 123 {
		t.Errorf("sample processing = %+v", cfg.Processing)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s missing: %v", dir, err)
		}
	}
	if got := cfg.LogFilePath(); got != filepath.Join(cfg.Paths.LogDir, "chorus.log") {
		t.Errorf("LogFilePath() = %q", got)
	}
	cfg.Paths.LogDir = ""
	if cfg.LogFilePath() != "" {
		t.Error("LogFilePath() should be empty when log dir unset")
	}
}

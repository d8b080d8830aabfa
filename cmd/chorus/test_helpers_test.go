package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
}

// setupCLITestEnv isolates HOME and writes a config pointing the state
// directory into the test's temp tree.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CHORUS_STATE_DIR", "")
	t.Setenv("CHORUS_LOG_LEVEL", "")

	stateDir := filepath.Join(base, "state")
	configPath := filepath.Join(homeDir, ".config", "chorus", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf("[paths]\nstate_dir = %q\nlog_dir = \"\"\n", stateDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath, stateDir: stateDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestDataset creates a dataset root with one fully annotated track.
func writeTestDataset(t *testing.T, track string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "dataset")
	for _, dir := range []string{"audio", "references"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	audio := filepath.Join(root, "audio", track+".wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	annotation := `{
  "metadata": {"duration": 20},
  "beats": [{"data": [{"time": 0.5}, {"time": 1.0}]}],
  "segments": [{"data": [{"start": 0, "end": 12, "label": "verse"}, {"start": 12, "end": 20, "label": "chorus"}]}]
}`
	ref := filepath.Join(root, "references", track+".json")
	if err := os.WriteFile(ref, []byte(annotation), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

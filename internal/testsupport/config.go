// Package testsupport provides fixture helpers shared by tests across the
// repository: temp-dir configs, run store setup, and dataset trees.
package testsupport

import (
	"path/filepath"
	"testing"

	"chorus/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = ""
	return &cfg
}

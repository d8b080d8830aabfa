// Package preflight verifies a dataset tree is usable before a batch starts,
// so permission problems surface up front instead of as per-item failures.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Result is one named check outcome.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckAudioReadable verifies the audio directory exists and is listable.
func CheckAudioReadable(root, audioDir string) Result {
	const name = "audio directory"
	dir := filepath.Join(root, audioDir)

	info, err := os.Stat(dir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("missing (%v)", err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: "not a directory"}
	}
	if err := unix.Access(dir, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("not readable (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: dir}
}

// CheckEstimationsWritable verifies the estimations directory can receive
// output, creating it when absent.
func CheckEstimationsWritable(root, estimationsDir string) Result {
	const name = "estimations directory"
	dir := filepath.Join(root, estimationsDir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot create (%v)", err)}
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("not writable (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: dir}
}

// Run executes every dataset check and returns an error summarizing any
// failures.
func Run(root, audioDir, estimationsDir string) ([]Result, error) {
	results := []Result{
		CheckAudioReadable(root, audioDir),
		CheckEstimationsWritable(root, estimationsDir),
	}

	var failures []string
	for _, res := range results {
		if !res.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", res.Name, res.Detail))
		}
	}
	if len(failures) > 0 {
		return results, fmt.Errorf("preflight failed: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

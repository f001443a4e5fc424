// Package store implements the locked JSON persistence primitive the rest
// of ksaiproc builds on, plus the two typed stores (running processes and
// scheduled jobs) layered on top of it.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// WithStore opens path (creating its parent directory and an empty `{}`
// document if absent), takes an exclusive OS-level advisory lock on the
// open file handle, decodes the JSON object into a map, runs mutator, and -
// unless mutator returns an error - re-encodes the (possibly mutated) map
// back to the same file before releasing the lock.
//
// A malformed or empty file is treated as an empty map rather than an
// error, so a reaped-mid-write file never wedges subsequent callers.
func WithStore[V any, R any](path string, mutator func(map[string]V) (R, error)) (R, error) {
	var zero R

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zero, fmt.Errorf("creating directory for store %s: %w", path, err)
	}

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return zero, fmt.Errorf("locking store %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	records := make(map[string]V)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return zero, fmt.Errorf("reading store %s: %w", path, err)
	}
	if len(data) > 0 {
		if jsonErr := json.Unmarshal(data, &records); jsonErr != nil {
			// Malformed file: treat as empty rather than fail the invocation.
			records = make(map[string]V)
		}
	}

	result, mutErr := mutator(records)
	if mutErr != nil {
		return zero, mutErr
	}

	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zero, fmt.Errorf("encoding store %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return zero, fmt.Errorf("writing store %s: %w", path, err)
	}

	return result, nil
}

// Package testutil provides test utilities and mock implementations.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Norgate-AV/akcfg/internal/store"
)

// SeedStore writes AppPath values into a fresh in-memory store. Keys of
// values are paths relative to root, e.g. `Home\Notes`.
func SeedStore(t *testing.T, root string, values map[string]string) *store.Memory {
	t.Helper()

	m := store.NewMemory()
	for rel, path := range values {
		if err := m.SetString(store.Join(root, rel), "AppPath", path); err != nil {
			t.Fatalf("Failed to seed %s: %v", rel, err)
		}
	}

	return m
}

// TempConfigPath returns a settings file path inside a per-test directory.
func TempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

// Package store provides the hierarchical key/value tree entries are
// persisted in: the per-user registry on Windows, an in-memory tree elsewhere
// and in tests.
package store

import (
	"errors"
	"strings"
)

// Separator joins key path segments.
const Separator = `\`

// ErrNotFound is returned when a key or value does not exist.
var ErrNotFound = errors.New("not found")

// Store is a tree of keys holding named string values. Key path segments are
// compared case-insensitively.
type Store interface {
	// SubKeys lists the direct children of path. A missing path has no children.
	SubKeys(path string) ([]string, error)
	// GetString reads a value; ErrNotFound if the key or value is absent.
	GetString(path, name string) (string, error)
	// SetString writes a value, creating intermediate keys.
	SetString(path, name, value string) error
	// DeleteTree removes path and everything below it. Deleting a missing key
	// is not an error.
	DeleteTree(path string) error
}

// Join builds a key path from segments, skipping empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, Separator)
		if s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, Separator)
}

// Split breaks a key path into its segments.
func Split(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, Separator) {
		if s != "" {
			segments = append(segments, s)
		}
	}

	return segments
}

// Segment makes name usable as a single key segment. Separators inside the
// name would otherwise nest keys, so they are replaced with '_'.
func Segment(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), Separator, "_")
}

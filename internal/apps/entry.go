package apps

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Entry is one application bound (or offered to be bound) to a mode.
//
// Setters only update fields and describe what changed. Notification and
// persistence are driven by the Catalog that owns the entry.
type Entry struct {
	displayName    string
	path           string
	mode           Mode
	icon           image.Image
	storageKey     string
	pendingRemoval bool
}

func (e *Entry) DisplayName() string { return e.displayName }

// Path is the absolute executable path and the entry's identity.
func (e *Entry) Path() string { return e.path }

func (e *Entry) Mode() Mode { return e.mode }

// Icon is nil until loaded.
func (e *Entry) Icon() image.Image { return e.icon }

// StorageKey is the key the entry is persisted under, empty when transient.
func (e *Entry) StorageKey() string { return e.storageKey }

// HasStorageKey reports whether the entry is persisted.
func (e *Entry) HasStorageKey() bool { return e.storageKey != "" }

func (e *Entry) PendingRemoval() bool { return e.pendingRemoval }

func (e *Entry) String() string {
	return fmt.Sprintf("%s/%s (%s)", e.mode, e.displayName, e.path)
}

// PathKey projects an entry onto its identity for keyed comparisons.
func PathKey(e *Entry) string {
	return e.path
}

// SetDisplayName renames the entry.
func (e *Entry) SetDisplayName(name string) (Change, bool) {
	if e.displayName == name {
		return Change{}, false
	}

	c := Change{Field: FieldDisplayName, Previous: e.displayName, Current: name}
	e.displayName = name
	return c, true
}

// SetPath points the entry at another executable.
func (e *Entry) SetPath(path string) (Change, bool) {
	if e.path == path {
		return Change{}, false
	}

	c := Change{Field: FieldPath, Previous: e.path, Current: path}
	e.path = path
	return c, true
}

// SetMode moves the entry to another mode.
func (e *Entry) SetMode(m Mode) (Change, bool) {
	if e.mode == m {
		return Change{}, false
	}

	c := Change{Field: FieldMode, Previous: e.mode.String(), Current: m.String()}
	e.mode = m
	return c, true
}

// SetIcon replaces the loaded icon.
func (e *Entry) SetIcon(img image.Image) (Change, bool) {
	if e.icon == nil && img == nil {
		return Change{}, false
	}

	e.icon = img
	return Change{Field: FieldIcon}, true
}

// MarkPendingRemoval flags the entry as being removed. Storage is untouched
// until the removal is finalized.
func (e *Entry) MarkPendingRemoval() (Change, bool) {
	if e.pendingRemoval {
		return Change{}, false
	}

	e.pendingRemoval = true
	return Change{Field: FieldPendingRemoval, Previous: "false", Current: "true"}, true
}

// FallbackName derives a display name from an executable path.
func FallbackName(path string) string {
	base := filepath.Base(strings.ReplaceAll(path, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

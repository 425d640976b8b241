package apps

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Norgate-AV/akcfg/internal/keyed"
	"github.com/Norgate-AV/akcfg/internal/logger"
)

var (
	// ErrNotInCatalog is returned when mutating an entry the catalog does not own.
	ErrNotInCatalog = errors.New("entry is not in the catalog")

	// ErrKeyInUse is returned when another entry already occupies the
	// mode/name pair a mutation would move an entry to.
	ErrKeyInUse = errors.New("another application already uses this mode and name")

	// ErrDuplicatePath is returned when an executable is already configured.
	ErrDuplicatePath = errors.New("executable is already configured")
)

// Catalog is the ordered collection of configured entries. It applies every
// mutation, notifies observers, then persists the change. A Catalog is owned
// by a single goroutine.
type Catalog struct {
	repo      *Repository
	log       logger.LoggerInterface
	entries   []*Entry
	observers []Observer
}

// NewCatalog creates an empty catalog backed by repo.
func NewCatalog(repo *Repository, log logger.LoggerInterface) *Catalog {
	return &Catalog{repo: repo, log: log}
}

// Load replaces the contents with everything persisted, in mode order.
func (c *Catalog) Load() int {
	c.entries = c.repo.LoadAll(Modes())
	return len(c.entries)
}

// Subscribe registers an observer for entry changes.
func (c *Catalog) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Entries returns a snapshot in display order.
func (c *Catalog) Entries() []*Entry {
	return slices.Clone(c.entries)
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Index returns the position of e, or -1.
func (c *Catalog) Index(e *Entry) int {
	return slices.Index(c.entries, e)
}

// Find returns the entry configured for path, or nil.
func (c *Catalog) Find(path string) *Entry {
	for _, e := range c.entries {
		if e.path == path {
			return e
		}
	}

	return nil
}

// Lookup returns the entry named name in mode m, or nil. Names compare
// case-insensitively like storage keys do.
func (c *Catalog) Lookup(m Mode, name string) *Entry {
	for _, e := range c.entries {
		if e.mode == m && strings.EqualFold(e.displayName, name) {
			return e
		}
	}

	return nil
}

// IgnoreSet returns the configured entries plus extra, for excluding them
// from a scan.
func (c *Catalog) IgnoreSet(extra ...*Entry) []*Entry {
	out := slices.Clone(c.entries)
	for _, e := range extra {
		if e != nil {
			out = append(out, e)
		}
	}

	return out
}

// Add persists e and inserts it at the front. It reports false without error
// when e is nil, has no path, or its executable is already configured.
func (c *Catalog) Add(e *Entry) (bool, error) {
	if e == nil || e.path == "" {
		return false, nil
	}

	configured := keyed.NewSet(keyed.By(PathKey), c.entries...)
	if configured.Contains(e) {
		c.log.Debug("Application already configured", slog.String("path", e.path))
		return false, nil
	}

	if err := c.checkKeyFree(e, e.mode, e.displayName); err != nil {
		return false, err
	}

	if err := c.repo.Save(e); err != nil {
		return false, fmt.Errorf("failed to save %s: %w", e, err)
	}

	c.entries = slices.Insert(c.entries, 0, e)

	c.log.Info("Added application",
		slog.String("name", e.displayName),
		slog.String("mode", e.mode.String()),
		slog.String("path", e.path))

	return true, nil
}

// SetMode moves e to mode m.
func (c *Catalog) SetMode(e *Entry, m Mode) error {
	if err := c.owned(e); err != nil {
		return err
	}

	if !m.Valid() {
		return fmt.Errorf("invalid mode %d", int(m))
	}

	if err := c.checkKeyFree(e, m, e.displayName); err != nil {
		return err
	}

	change, ok := e.SetMode(m)
	return c.apply(e, change, ok)
}

// CycleMode moves e to the next mode.
func (c *Catalog) CycleMode(e *Entry) error {
	return c.SetMode(e, e.mode.Next())
}

// Rename changes the display name of e.
func (c *Catalog) Rename(e *Entry, name string) error {
	if err := c.owned(e); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if _, err := c.repo.KeyFor(e.mode, name); err != nil {
		return err
	}

	if err := c.checkKeyFree(e, e.mode, name); err != nil {
		return err
	}

	change, ok := e.SetDisplayName(name)
	return c.apply(e, change, ok)
}

// SetPath points e at another executable.
func (c *Catalog) SetPath(e *Entry, path string) error {
	if err := c.owned(e); err != nil {
		return err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("executable path is empty")
	}

	if other := c.Find(path); other != nil && other != e {
		return fmt.Errorf("%s: %w", path, ErrDuplicatePath)
	}

	change, ok := e.SetPath(path)
	if err := c.apply(e, change, ok); err != nil {
		return err
	}

	if ok {
		e.SetIcon(nil)
		return c.LoadIcon(e)
	}

	return nil
}

// LoadIcon (re)loads the icon of e and notifies observers when it changed.
func (c *Catalog) LoadIcon(e *Entry) error {
	before := e.icon
	err := c.repo.LoadIcon(e)

	if e.icon != nil && before == nil {
		c.notify(e, Change{Field: FieldIcon})
	}

	return err
}

// MarkPendingRemoval flags entries as being removed so the interface can
// animate them out. Storage is untouched until Finalize.
func (c *Catalog) MarkPendingRemoval(entries ...*Entry) {
	for _, e := range entries {
		if c.Index(e) < 0 {
			continue
		}

		change, ok := e.MarkPendingRemoval()
		if ok {
			c.notify(e, change)
		}
	}
}

// Finalize deletes the storage subtree of each entry and drops it from the
// catalog. Entries whose subtree cannot be deleted stay in the catalog.
func (c *Catalog) Finalize(entries ...*Entry) error {
	var errs []error

	for _, e := range entries {
		idx := c.Index(e)
		if idx < 0 {
			continue
		}

		if err := c.repo.RemoveRegistryEntry(e); err != nil {
			c.log.Error("Failed to remove application",
				slog.String("name", e.displayName),
				slog.Any("error", err))
			errs = append(errs, err)
			continue
		}

		c.entries = slices.Delete(c.entries, idx, idx+1)

		c.log.Info("Removed application",
			slog.String("name", e.displayName),
			slog.String("mode", e.mode.String()))
	}

	return errors.Join(errs...)
}

// Remove marks and finalizes entries in one step.
func (c *Catalog) Remove(entries ...*Entry) error {
	c.MarkPendingRemoval(entries...)
	return c.Finalize(entries...)
}

func (c *Catalog) owned(e *Entry) error {
	if e == nil || c.Index(e) < 0 {
		return ErrNotInCatalog
	}

	return nil
}

func (c *Catalog) checkKeyFree(e *Entry, m Mode, name string) error {
	key, err := c.repo.KeyFor(m, name)
	if err != nil {
		return err
	}

	for _, other := range c.entries {
		if other == e || !other.HasStorageKey() {
			continue
		}

		if strings.EqualFold(other.storageKey, key) {
			return fmt.Errorf("%s/%s: %w", m, name, ErrKeyInUse)
		}
	}

	return nil
}

func (c *Catalog) notify(e *Entry, change Change) {
	for _, o := range c.observers {
		o(e, change)
	}
}

// apply notifies observers of an applied mutation, then persists it.
func (c *Catalog) apply(e *Entry, change Change, ok bool) error {
	if !ok {
		return nil
	}

	c.notify(e, change)

	if err := c.repo.Persist(e, change); err != nil {
		c.log.Error("Failed to persist change",
			slog.String("field", change.Field.String()),
			slog.String("entry", e.String()),
			slog.Any("error", err))
		return err
	}

	return nil
}

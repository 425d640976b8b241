package apps

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Norgate-AV/akcfg/internal/interfaces"
	"github.com/Norgate-AV/akcfg/internal/logger"
	"github.com/Norgate-AV/akcfg/internal/store"
)

const (
	// DefaultRoot is the per-user key the keyboard driver reads its row
	// configuration from.
	DefaultRoot = `Software\Lenovo\SmartKey\Application\Row`

	// ValueAppPath holds the executable path under each application key.
	ValueAppPath = "AppPath"

	// DefaultIconSize is the icon edge length in pixels at 96 dpi.
	DefaultIconSize = 32
)

// ErrEmptyName is returned when a display name cannot form a storage key.
var ErrEmptyName = errors.New("display name is empty")

// RepositoryOptions configures a Repository.
type RepositoryOptions struct {
	Root     string                // Defaults to DefaultRoot
	Icons    interfaces.IconLoader // Optional; entries keep a nil icon without it
	IconSize int                   // Defaults to DefaultIconSize
}

// Repository maps entries onto the store layout
//
//	<root>\<Mode>\<DisplayName>   AppPath = <executable path>
type Repository struct {
	store    store.Store
	root     string
	icons    interfaces.IconLoader
	iconSize int
	log      logger.LoggerInterface
}

// NewRepository creates a repository over s.
func NewRepository(s store.Store, log logger.LoggerInterface, opts RepositoryOptions) *Repository {
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}

	if opts.IconSize <= 0 {
		opts.IconSize = DefaultIconSize
	}

	return &Repository{
		store:    s,
		root:     store.Join(opts.Root),
		icons:    opts.Icons,
		iconSize: opts.IconSize,
		log:      log,
	}
}

// Root returns the key all modes live under.
func (r *Repository) Root() string {
	return r.root
}

// KeyFor computes the storage key of an application named name in mode m.
func (r *Repository) KeyFor(m Mode, name string) (string, error) {
	seg := store.Segment(name)
	if seg == "" {
		return "", ErrEmptyName
	}

	return store.Join(r.root, m.String(), seg), nil
}

// LoadAll reads every persisted entry, mode by mode in the given order. A
// mode or child that cannot be read is logged and skipped; a child without a
// readable AppPath yields an entry with an empty path.
func (r *Repository) LoadAll(modes []Mode) []*Entry {
	var entries []*Entry

	for _, m := range modes {
		modeKey := store.Join(r.root, m.String())

		names, err := r.store.SubKeys(modeKey)
		if err != nil {
			r.log.Warn("Failed to enumerate mode key",
				slog.String("key", modeKey),
				slog.Any("error", err))
			continue
		}

		for _, name := range names {
			key := store.Join(modeKey, name)

			path, err := r.store.GetString(key, ValueAppPath)
			if err != nil {
				r.log.Warn("Stored application has no readable path",
					slog.String("key", key),
					slog.Any("error", err))
				path = ""
			}

			e := NewBuilder().
				DisplayName(name).
				Mode(m).
				Path(path).
				StorageKey(key).
				Build()

			if err := r.LoadIcon(e); err != nil {
				r.log.Warn("Icon handle cleanup failed",
					slog.String("path", path),
					slog.Any("error", err))
			}

			r.log.Trace("Loaded application",
				slog.String("key", key),
				slog.String("path", path))

			entries = append(entries, e)
		}
	}

	r.log.Debug("Loaded applications from storage",
		slog.String("root", r.root),
		slog.Int("count", len(entries)))

	return entries
}

// Save writes a transient entry for the first time, or rewrites a persisted
// one under its current identity.
func (r *Repository) Save(e *Entry) error {
	return r.move(e)
}

// Persist mirrors an applied change to storage.
func (r *Repository) Persist(e *Entry, c Change) error {
	switch c.Kind() {
	case KindIdentity:
		return r.move(e)
	case KindValue:
		if !e.HasStorageKey() {
			return nil
		}

		return r.writePath(e.storageKey, e.path)
	default:
		return nil
	}
}

// RemoveRegistryEntry deletes the entry's subtree and clears its key. It is a
// no-op for an entry that is not persisted.
func (r *Repository) RemoveRegistryEntry(e *Entry) error {
	if !e.HasStorageKey() {
		return nil
	}

	if err := r.store.DeleteTree(e.storageKey); err != nil {
		return fmt.Errorf("failed to delete %s: %w", e.storageKey, err)
	}

	r.log.Debug("Deleted storage key", slog.String("key", e.storageKey))
	e.storageKey = ""
	return nil
}

// LoadIcon fetches the entry's icon. Extraction failures leave the icon nil;
// only failures to release native handles are returned.
func (r *Repository) LoadIcon(e *Entry) error {
	if r.icons == nil || e.path == "" {
		return nil
	}

	img, err := r.icons.LoadIcon(e.path, r.iconSize)
	if img != nil {
		e.SetIcon(img)
	}

	return err
}

// move deletes the old subtree before writing the new one, so the entry
// never occupies two keys. A failed write after the delete leaves the entry
// transient.
func (r *Repository) move(e *Entry) error {
	newKey, err := r.KeyFor(e.mode, e.displayName)
	if err != nil {
		return err
	}

	if e.HasStorageKey() {
		oldKey := e.storageKey
		if err := r.RemoveRegistryEntry(e); err != nil {
			return err
		}

		r.log.Debug("Moving application",
			slog.String("from", oldKey),
			slog.String("to", newKey))
	}

	if err := r.writePath(newKey, e.path); err != nil {
		return err
	}

	e.storageKey = newKey
	return nil
}

func (r *Repository) writePath(key, path string) error {
	if err := r.store.SetString(key, ValueAppPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	r.log.Debug("Wrote application path",
		slog.String("key", key),
		slog.String("path", path))

	return nil
}

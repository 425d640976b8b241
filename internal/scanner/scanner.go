// Package scanner discovers applications with visible top-level windows on
// the desktop and resolves them into candidate entries.
package scanner

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/interfaces"
	"github.com/Norgate-AV/akcfg/internal/keyed"
	"github.com/Norgate-AV/akcfg/internal/logger"
)

// DefaultDescriptionCacheSize bounds the number of cached FileDescription
// lookups when no size is configured.
const DefaultDescriptionCacheSize = 256

// Scanner resolves windows to entries through a WindowDirectory. Window
// state is read live on every call; only executable descriptions are cached.
type Scanner struct {
	dir          interfaces.WindowDirectory
	log          logger.LoggerInterface
	descriptions *lru.Cache[string, string]
}

// New creates a scanner over dir.
func New(dir interfaces.WindowDirectory, log logger.LoggerInterface, cacheSize int) (*Scanner, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultDescriptionCacheSize
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create description cache: %w", err)
	}

	return &Scanner{
		dir:          dir,
		log:          log,
		descriptions: cache,
	}, nil
}

// ResolveEntry maps a window to the application that owns it. The display
// name is the executable's FileDescription, else the window title, else the
// file name without extension. It returns nil if the owning process cannot
// be inspected.
func (s *Scanner) ResolveEntry(hwnd uintptr) *apps.Entry {
	pid := s.dir.WindowPid(hwnd)
	if pid == 0 {
		s.log.Debug("Window has no owning process", slog.String("hwnd", fmt.Sprintf("0x%X", hwnd)))
		return nil
	}

	path, err := s.dir.ExecutablePath(pid)
	if err != nil || path == "" {
		s.log.Debug("Could not resolve executable",
			slog.String("hwnd", fmt.Sprintf("0x%X", hwnd)),
			slog.Uint64("pid", uint64(pid)),
			slog.Any("error", err))
		return nil
	}

	name := s.description(path)
	if name == "" {
		name = strings.TrimSpace(s.dir.WindowText(hwnd))
	}

	if name == "" {
		name = apps.FallbackName(path)
	}

	s.log.Trace("Resolved window",
		slog.String("hwnd", fmt.Sprintf("0x%X", hwnd)),
		slog.String("name", name),
		slog.String("path", path))

	return apps.NewBuilder().
		DisplayName(name).
		Path(path).
		Build()
}

// Candidates lists applications with a visible top-level window, one entry
// per executable in window z-order, minus those in excluding. The sequence
// enumerates the desktop when ranged over; stopping early stops the scan.
func (s *Scanner) Candidates(excluding []*apps.Entry) iter.Seq[*apps.Entry] {
	ignore := keyed.NewSet(keyed.By(apps.PathKey), excluding...)

	var resolved iter.Seq[*apps.Entry] = func(yield func(*apps.Entry) bool) {
		for root := range s.appWindows() {
			e := s.ResolveEntry(root)
			if e == nil {
				continue
			}

			if !yield(e) {
				return
			}
		}
	}

	return keyed.Except(keyed.Distinct(resolved, apps.PathKey), ignore)
}

// appWindows yields the root owner of every visible top-level window that
// looks like an application window.
func (s *Scanner) appWindows() iter.Seq[uintptr] {
	return func(yield func(uintptr) bool) {
		handles := s.dir.EnumerateWindows()
		s.log.Trace("Enumerated windows", slog.Int("count", len(handles)))

		for _, hwnd := range handles {
			if !s.dir.IsWindowVisible(hwnd) {
				continue
			}

			root := s.dir.RootOwner(hwnd)
			if !s.isAppWindow(root) {
				continue
			}

			if !yield(root) {
				return
			}
		}
	}
}

func (s *Scanner) isAppWindow(hwnd uintptr) bool {
	if state, ok := s.dir.TitleBarState(hwnd); ok && state&interfaces.StateSystemInvisible != 0 {
		return false
	}

	return s.dir.ExtendedStyle(hwnd)&interfaces.WSExToolWindow == 0
}

// EntryAt finds the top-most visible window containing pt, ignoring the
// handles in skip, and resolves its root owner. The returned rectangle is
// the root owner's bounds.
func (s *Scanner) EntryAt(pt interfaces.Point, skip ...uintptr) (*apps.Entry, interfaces.Rect, bool) {
	for _, hwnd := range s.dir.EnumerateWindows() {
		if slices.Contains(skip, hwnd) || !s.dir.IsWindowVisible(hwnd) {
			continue
		}

		rect, ok := s.dir.WindowRect(hwnd)
		if !ok || !rect.Contains(pt) {
			continue
		}

		root := s.dir.RootOwner(hwnd)
		bounds, _ := s.dir.WindowRect(root)

		e := s.ResolveEntry(root)
		if e == nil {
			return nil, bounds, false
		}

		return e, bounds, true
	}

	return nil, interfaces.Rect{}, false
}

// EntryUnderCursor resolves the window below the mouse cursor.
func (s *Scanner) EntryUnderCursor(skip ...uintptr) (*apps.Entry, interfaces.Rect, bool) {
	pt, ok := s.dir.CursorPos()
	if !ok {
		s.log.Debug("Cursor position unavailable")
		return nil, interfaces.Rect{}, false
	}

	return s.EntryAt(pt, skip...)
}

// Self returns an entry for the running executable, so scans can skip it.
// It is nil when the executable path cannot be determined.
func Self() *apps.Entry {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}

	return apps.NewBuilder().
		DisplayName(apps.FallbackName(exe)).
		Path(exe).
		Build()
}

func (s *Scanner) description(path string) string {
	if d, ok := s.descriptions.Get(path); ok {
		return d
	}

	d := strings.TrimSpace(s.dir.FileDescription(path))
	s.descriptions.Add(path, d)
	return d
}

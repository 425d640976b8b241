// Package interfaces defines the operating-system capabilities akcfg consumes,
// so the scanner and repository can be driven by scripted fakes in tests.
package interfaces

import "image"

// WindowDirectory exposes the desktop's top-level windows and the processes
// that own them.
type WindowDirectory interface {
	// EnumerateWindows lists top-level window handles in system (z-)order.
	EnumerateWindows() []uintptr
	IsWindowVisible(hwnd uintptr) bool
	// RootOwner walks the parent and owner chain to the top-most owning window.
	RootOwner(hwnd uintptr) uintptr
	// TitleBarState returns the rgstate[0] flags of the window's title bar.
	TitleBarState(hwnd uintptr) (uint32, bool)
	// ExtendedStyle returns the GWL_EXSTYLE flags.
	ExtendedStyle(hwnd uintptr) uint32
	WindowText(hwnd uintptr) string
	WindowRect(hwnd uintptr) (Rect, bool)
	CursorPos() (Point, bool)
	// WindowPid returns the id of the process owning hwnd, 0 if unknown.
	WindowPid(hwnd uintptr) uint32
	// ExecutablePath returns the full image path of a process.
	ExecutablePath(pid uint32) (string, error)
	// FileDescription reads the FileDescription string of an executable's
	// version resource, empty if it has none.
	FileDescription(exePath string) string
}

// IconLoader extracts the icon associated with an executable.
type IconLoader interface {
	// LoadIcon returns nil without error when no icon could be extracted.
	// An error means a native handle could not be released.
	LoadIcon(exePath string, size int) (image.Image, error)
}

// Title bar and style flags consulted by the scanner.
const (
	StateSystemInvisible = 0x00008000
	WSExToolWindow       = 0x00000080
)

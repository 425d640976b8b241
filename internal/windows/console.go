//go:build windows

package windows

import (
	"sync"

	"golang.org/x/sys/windows"
)

// Console control event types
const (
	CTRL_C_EVENT        = 0
	CTRL_BREAK_EVENT    = 1
	CTRL_CLOSE_EVENT    = 2
	CTRL_LOGOFF_EVENT   = 5
	CTRL_SHUTDOWN_EVENT = 6
)

// ConsoleCtrlHandler handles a console control event and reports whether it
// was consumed.
type ConsoleCtrlHandler func(ctrlType uint32) bool

var (
	handlerMu       sync.Mutex
	consoleHandler  ConsoleCtrlHandler
	handlerCallback uintptr
)

// SetConsoleCtrlHandler routes console events (Ctrl+C, window close,
// logoff, shutdown) to handler. Later calls replace the handler.
func SetConsoleCtrlHandler(handler ConsoleCtrlHandler) error {
	handlerMu.Lock()
	defer handlerMu.Unlock()

	consoleHandler = handler
	if handlerCallback != 0 {
		return nil
	}

	cb := windows.NewCallback(func(ctrlType uint32) uintptr {
		handlerMu.Lock()
		h := consoleHandler
		handlerMu.Unlock()

		if h != nil && h(ctrlType) {
			return 1
		}

		return 0
	})

	if ret, _, err := procSetConsoleCtrlHandler.Call(cb, 1); ret == 0 {
		return err
	}

	handlerCallback = cb
	return nil
}

// GetConsoleWindow returns the window hosting this process's console, 0 if
// there is none.
func GetConsoleWindow() uintptr {
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd
}

// GetCtrlTypeName returns a human-readable name for a control event type
func GetCtrlTypeName(ctrlType uint32) string {
	switch ctrlType {
	case CTRL_C_EVENT:
		return "CTRL_C"
	case CTRL_BREAK_EVENT:
		return "CTRL_BREAK"
	case CTRL_CLOSE_EVENT:
		return "CTRL_CLOSE"
	case CTRL_LOGOFF_EVENT:
		return "CTRL_LOGOFF"
	case CTRL_SHUTDOWN_EVENT:
		return "CTRL_SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

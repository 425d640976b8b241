//go:build windows

// Package windows binds the desktop capabilities akcfg needs to the Win32 API.
package windows

import (
	"image"
	"log/slog"

	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/akcfg/internal/interfaces"
	"github.com/Norgate-AV/akcfg/internal/logger"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetAncestor              = user32.NewProc("GetAncestor")
	procGetTitleBarInfo          = user32.NewProc("GetTitleBarInfo")
	procGetWindowLongW           = user32.NewProc("GetWindowLongW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetPhysicalCursorPos     = user32.NewProc("GetPhysicalCursorPos")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetIconInfo              = user32.NewProc("GetIconInfo")
	procDestroyIcon              = user32.NewProc("DestroyIcon")
	procExtractIconExW           = shell32.NewProc("ExtractIconExW")
	procCreateCompatibleDC       = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC                 = gdi32.NewProc("DeleteDC")
	procDeleteObject             = gdi32.NewProc("DeleteObject")
	procGetDIBits                = gdi32.NewProc("GetDIBits")
	procSetConsoleCtrlHandler    = kernel32.NewProc("SetConsoleCtrlHandler")
	procGetConsoleWindow         = kernel32.NewProc("GetConsoleWindow")
)

const (
	GA_ROOTOWNER = 3
	GWL_EXSTYLE  = -20

	CCHILDREN_TITLEBAR = 5

	BI_RGB         = 0
	DIB_RGB_COLORS = 0
)

// WindowsAPI implements interfaces.WindowDirectory and interfaces.IconLoader
// over the live desktop.
type WindowsAPI struct {
	log logger.LoggerInterface
}

var (
	_ interfaces.WindowDirectory = (*WindowsAPI)(nil)
	_ interfaces.IconLoader      = (*WindowsAPI)(nil)
)

// NewWindowsAPI creates a new WindowsAPI with the provided logger
func NewWindowsAPI(log logger.LoggerInterface) *WindowsAPI {
	return &WindowsAPI{log: log}
}

// WindowDirectory interface implementation
func (w *WindowsAPI) EnumerateWindows() []uintptr         { return EnumerateWindows() }
func (w *WindowsAPI) IsWindowVisible(hwnd uintptr) bool   { return IsWindowVisible(hwnd) }
func (w *WindowsAPI) RootOwner(hwnd uintptr) uintptr      { return GetRootOwner(hwnd) }
func (w *WindowsAPI) ExtendedStyle(hwnd uintptr) uint32   { return GetExtendedStyle(hwnd) }
func (w *WindowsAPI) WindowText(hwnd uintptr) string      { return GetWindowText(hwnd) }
func (w *WindowsAPI) WindowPid(hwnd uintptr) uint32       { return GetWindowPid(hwnd) }
func (w *WindowsAPI) CursorPos() (interfaces.Point, bool) { return GetCursorPos() }

func (w *WindowsAPI) TitleBarState(hwnd uintptr) (uint32, bool) {
	return GetTitleBarState(hwnd)
}

func (w *WindowsAPI) WindowRect(hwnd uintptr) (interfaces.Rect, bool) {
	return GetWindowRect(hwnd)
}

func (w *WindowsAPI) ExecutablePath(pid uint32) (string, error) {
	return QueryExecutablePath(pid)
}

func (w *WindowsAPI) FileDescription(exePath string) string {
	desc, err := GetFileDescription(exePath)
	if err != nil {
		w.log.Trace("No version resource", slog.String("path", exePath), slog.Any("error", err))
	}

	return desc
}

// IconLoader interface implementation
func (w *WindowsAPI) LoadIcon(exePath string, size int) (image.Image, error) {
	img, err := ExtractIcon(exePath, size)
	if img == nil {
		w.log.Trace("No icon extracted", slog.String("path", exePath))
	}

	return img, err
}

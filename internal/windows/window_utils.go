//go:build windows

package windows

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/akcfg/internal/interfaces"
)

var (
	foundWindows []uintptr
	windowsMu    sync.Mutex

	// Created once; the runtime limits how many callbacks a process may create.
	enumWindowsProc = windows.NewCallback(enumWindowsCallback)
)

func enumWindowsCallback(hwnd uintptr, lparam uintptr) uintptr {
	foundWindows = append(foundWindows, hwnd)
	return 1 // Continue enumeration
}

// EnumerateWindows lists every top-level window in z-order.
func EnumerateWindows() []uintptr {
	windowsMu.Lock()
	defer windowsMu.Unlock()

	foundWindows = nil
	ret, _, _ := procEnumWindows.Call(enumWindowsProc, 0)
	if ret == 0 {
		return nil
	}

	handles := make([]uintptr, len(foundWindows))
	copy(handles, foundWindows)

	return handles
}

// IsWindowVisible checks if a window is visible
func IsWindowVisible(hwnd uintptr) bool {
	ret, _, _ := procIsWindowVisible.Call(hwnd)
	return ret != 0
}

// GetRootOwner walks the parent and owner chain of hwnd. It returns hwnd
// itself when the window has no ancestor.
func GetRootOwner(hwnd uintptr) uintptr {
	ret, _, _ := procGetAncestor.Call(hwnd, GA_ROOTOWNER)
	if ret == 0 {
		return hwnd
	}

	return ret
}

// GetTitleBarState returns the state flags of the title bar itself.
func GetTitleBarState(hwnd uintptr) (uint32, bool) {
	var info TITLEBARINFO
	info.CbSize = uint32(unsafe.Sizeof(info))

	ret, _, _ := procGetTitleBarInfo.Call(hwnd, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return 0, false
	}

	return info.Rgstate[0], true
}

// GetExtendedStyle returns the extended window style flags
func GetExtendedStyle(hwnd uintptr) uint32 {
	index := int32(GWL_EXSTYLE)
	ret, _, _ := procGetWindowLongW.Call(hwnd, uintptr(index))
	return uint32(ret)
}

// GetWindowText retrieves the text of a window
func GetWindowText(hwnd uintptr) string {
	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length == 0 {
		return ""
	}

	buf := make([]uint16, length+1)

	ret, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if ret == 0 {
		return ""
	}

	return windows.UTF16ToString(buf)
}

// GetWindowRect returns the window bounds in screen coordinates
func GetWindowRect(hwnd uintptr) (interfaces.Rect, bool) {
	var r RECT

	ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return interfaces.Rect{}, false
	}

	return interfaces.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}, true
}

// GetCursorPos returns the cursor position in physical screen coordinates
func GetCursorPos() (interfaces.Point, bool) {
	var pt POINT

	ret, _, _ := procGetPhysicalCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return interfaces.Point{}, false
	}

	return interfaces.Point{X: pt.X, Y: pt.Y}, true
}

// GetWindowPid retrieves the process ID of a window
func GetWindowPid(hwnd uintptr) uint32 {
	var pid uint32

	ret, _, _ := procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if ret == 0 {
		return 0
	}

	return pid
}

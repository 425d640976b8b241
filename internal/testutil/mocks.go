package testutil

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/Norgate-AV/akcfg/internal/interfaces"
)

// MockWindow scripts one top-level window of a MockWindowDirectory.
type MockWindow struct {
	Hwnd          uintptr
	Title         string
	Pid           uint32
	Visible       bool
	Owner         uintptr // Root owner; 0 means the window is its own root
	TitleBarState uint32
	ExStyle       uint32
	Rect          interfaces.Rect
}

// MockProcess scripts a process of a MockWindowDirectory.
type MockProcess struct {
	Path        string
	Description string
	Err         error // Returned by ExecutablePath, e.g. access denied
}

// MockWindowDirectory implements interfaces.WindowDirectory over scripted
// tables and records the calls it receives.
type MockWindowDirectory struct {
	Windows         []MockWindow
	Processes       map[uint32]MockProcess
	Cursor          interfaces.Point
	CursorOK        bool
	EnumerateCalls  int
	DescribeCalls   map[string]int
	ExecutablePaths []uint32
}

func NewMockWindowDirectory() *MockWindowDirectory {
	return &MockWindowDirectory{
		Windows:       []MockWindow{},
		Processes:     make(map[uint32]MockProcess),
		DescribeCalls: make(map[string]int),
	}
}

// WithWindow appends a window in enumeration order.
func (m *MockWindowDirectory) WithWindow(w MockWindow) *MockWindowDirectory {
	m.Windows = append(m.Windows, w)
	return m
}

// WithVisibleWindow appends a plain visible window owned by pid.
func (m *MockWindowDirectory) WithVisibleWindow(hwnd uintptr, title string, pid uint32) *MockWindowDirectory {
	return m.WithWindow(MockWindow{Hwnd: hwnd, Title: title, Pid: pid, Visible: true})
}

func (m *MockWindowDirectory) WithProcess(pid uint32, path, description string) *MockWindowDirectory {
	m.Processes[pid] = MockProcess{Path: path, Description: description}
	return m
}

// WithDeniedProcess makes ExecutablePath fail for pid.
func (m *MockWindowDirectory) WithDeniedProcess(pid uint32) *MockWindowDirectory {
	m.Processes[pid] = MockProcess{Err: errors.New("Access is denied.")}
	return m
}

func (m *MockWindowDirectory) WithCursor(x, y int32) *MockWindowDirectory {
	m.Cursor = interfaces.Point{X: x, Y: y}
	m.CursorOK = true
	return m
}

func (m *MockWindowDirectory) window(hwnd uintptr) (MockWindow, bool) {
	for _, w := range m.Windows {
		if w.Hwnd == hwnd {
			return w, true
		}
	}

	return MockWindow{}, false
}

func (m *MockWindowDirectory) EnumerateWindows() []uintptr {
	m.EnumerateCalls++

	out := make([]uintptr, 0, len(m.Windows))
	for _, w := range m.Windows {
		out = append(out, w.Hwnd)
	}

	return out
}

func (m *MockWindowDirectory) IsWindowVisible(hwnd uintptr) bool {
	w, ok := m.window(hwnd)
	return ok && w.Visible
}

func (m *MockWindowDirectory) RootOwner(hwnd uintptr) uintptr {
	w, ok := m.window(hwnd)
	if !ok || w.Owner == 0 {
		return hwnd
	}

	return w.Owner
}

func (m *MockWindowDirectory) TitleBarState(hwnd uintptr) (uint32, bool) {
	w, ok := m.window(hwnd)
	return w.TitleBarState, ok
}

func (m *MockWindowDirectory) ExtendedStyle(hwnd uintptr) uint32 {
	w, _ := m.window(hwnd)
	return w.ExStyle
}

func (m *MockWindowDirectory) WindowText(hwnd uintptr) string {
	w, _ := m.window(hwnd)
	return w.Title
}

func (m *MockWindowDirectory) WindowRect(hwnd uintptr) (interfaces.Rect, bool) {
	w, ok := m.window(hwnd)
	return w.Rect, ok
}

func (m *MockWindowDirectory) CursorPos() (interfaces.Point, bool) {
	return m.Cursor, m.CursorOK
}

func (m *MockWindowDirectory) WindowPid(hwnd uintptr) uint32 {
	w, _ := m.window(hwnd)
	return w.Pid
}

func (m *MockWindowDirectory) ExecutablePath(pid uint32) (string, error) {
	m.ExecutablePaths = append(m.ExecutablePaths, pid)

	p, ok := m.Processes[pid]
	if !ok {
		return "", fmt.Errorf("process %d has exited", pid)
	}

	if p.Err != nil {
		return "", p.Err
	}

	return p.Path, nil
}

func (m *MockWindowDirectory) FileDescription(exePath string) string {
	m.DescribeCalls[exePath]++

	for _, p := range m.Processes {
		if p.Path == exePath {
			return p.Description
		}
	}

	return ""
}

// MockIconLoader implements interfaces.IconLoader.
type MockIconLoader struct {
	Icons      map[string]image.Image
	ReleaseErr error
	Calls      []string
}

func NewMockIconLoader() *MockIconLoader {
	return &MockIconLoader{Icons: make(map[string]image.Image)}
}

// WithIcon registers a solid size x size icon for path.
func (m *MockIconLoader) WithIcon(path string, size int) *MockIconLoader {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: 0x20, G: 0x80, B: 0xC0, A: 0xFF})
		}
	}

	m.Icons[path] = img
	return m
}

func (m *MockIconLoader) WithReleaseError(err error) *MockIconLoader {
	m.ReleaseErr = err
	return m
}

func (m *MockIconLoader) LoadIcon(exePath string, size int) (image.Image, error) {
	m.Calls = append(m.Calls, exePath)
	return m.Icons[exePath], m.ReleaseErr
}

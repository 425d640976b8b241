package scanner_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/interfaces"
	"github.com/Norgate-AV/akcfg/internal/logger"
	"github.com/Norgate-AV/akcfg/internal/scanner"
	"github.com/Norgate-AV/akcfg/internal/testutil"
)

func newScanner(t *testing.T, dir interfaces.WindowDirectory) *scanner.Scanner {
	t.Helper()

	s, err := scanner.New(dir, logger.NewNoOpLogger(), 0)
	require.NoError(t, err)
	return s
}

func paths(entries []*apps.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path())
	}

	return out
}

func TestCandidates_FiltersWindows(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithVisibleWindow(1, "Window One", 10).
		WithWindow(testutil.MockWindow{Hwnd: 2, Title: "Palette", Pid: 20, Visible: true, ExStyle: interfaces.WSExToolWindow}).
		WithWindow(testutil.MockWindow{Hwnd: 3, Title: "Hidden", Pid: 30}).
		WithWindow(testutil.MockWindow{Hwnd: 4, Title: "Ghost", Pid: 40, Visible: true, TitleBarState: interfaces.StateSystemInvisible}).
		WithProcess(10, `C:\w1.exe`, "").
		WithProcess(20, `C:\w2.exe`, "").
		WithProcess(30, `C:\w3.exe`, "").
		WithProcess(40, `C:\w4.exe`, "")

	got := slices.Collect(newScanner(t, dir).Candidates(nil))

	assert.Equal(t, []string{`C:\w1.exe`}, paths(got))
	assert.Equal(t, "Window One", got[0].DisplayName())
	assert.False(t, got[0].HasStorageKey())
}

func TestCandidates_MapsToRootOwner(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithWindow(testutil.MockWindow{Hwnd: 11, Title: "Find", Pid: 99, Visible: true, Owner: 10}).
		WithWindow(testutil.MockWindow{Hwnd: 10, Title: "Editor", Pid: 10}).
		WithProcess(10, `C:\editor.exe`, "").
		WithProcess(99, `C:\dialog-host.exe`, "")

	got := slices.Collect(newScanner(t, dir).Candidates(nil))

	require.Len(t, got, 1)
	assert.Equal(t, `C:\editor.exe`, got[0].Path())
	assert.Equal(t, "Editor", got[0].DisplayName())
}

func TestCandidates_DistinctByPath(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithVisibleWindow(1, "Doc 1", 10).
		WithVisibleWindow(2, "Browser", 20).
		WithVisibleWindow(3, "Doc 2", 11).
		WithProcess(10, `C:\word.exe`, "Word").
		WithProcess(11, `C:\word.exe`, "Word").
		WithProcess(20, `C:\browser.exe`, "Browser")

	got := slices.Collect(newScanner(t, dir).Candidates(nil))

	assert.Equal(t, []string{`C:\word.exe`, `C:\browser.exe`}, paths(got))
}

func TestCandidates_Excluding(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithVisibleWindow(1, "Calc", 10).
		WithVisibleWindow(2, "Notes", 20).
		WithVisibleWindow(3, "Tool", 30).
		WithProcess(10, `C:\calc.exe`, "").
		WithProcess(20, `C:\notes.exe`, "").
		WithProcess(30, `C:\akcfg.exe`, "")

	configured := apps.NewBuilder().DisplayName("Calculator").Path(`C:\calc.exe`).Mode(apps.ModeHome).Build()
	self := apps.NewBuilder().Path(`C:\akcfg.exe`).Build()

	got := slices.Collect(newScanner(t, dir).Candidates([]*apps.Entry{configured, self}))

	assert.Equal(t, []string{`C:\notes.exe`}, paths(got))
}

func TestCandidates_IsolatesFailures(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithVisibleWindow(1, "Elevated", 10).
		WithVisibleWindow(2, "Exited", 20).
		WithVisibleWindow(3, "Orphan", 0).
		WithVisibleWindow(4, "No image", 40).
		WithVisibleWindow(5, "Fine", 50).
		WithDeniedProcess(10).
		WithProcess(40, "", "").
		WithProcess(50, `C:\fine.exe`, "")

	got := slices.Collect(newScanner(t, dir).Candidates(nil))

	assert.Equal(t, []string{`C:\fine.exe`}, paths(got))
	for _, e := range got {
		assert.NotEmpty(t, e.Path())
	}
}

func TestCandidates_StopsEarly(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithVisibleWindow(1, "A", 10).
		WithVisibleWindow(2, "B", 20).
		WithProcess(10, `C:\a.exe`, "").
		WithProcess(20, `C:\b.exe`, "")

	for e := range newScanner(t, dir).Candidates(nil) {
		assert.Equal(t, `C:\a.exe`, e.Path())
		break
	}

	assert.Equal(t, []uint32{10}, dir.ExecutablePaths)
}

func TestCandidates_RepeatScan(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithVisibleWindow(1, "A", 10).
		WithVisibleWindow(2, "B", 20).
		WithProcess(10, `C:\a.exe`, "Alpha").
		WithProcess(20, `C:\b.exe`, "Beta")

	s := newScanner(t, dir)
	seq := s.Candidates(nil)

	first := paths(slices.Collect(seq))
	second := paths(slices.Collect(seq))

	assert.Equal(t, first, second)
	assert.Equal(t, 2, dir.EnumerateCalls, "each iteration re-enumerates the desktop")
	assert.Equal(t, 1, dir.DescribeCalls[`C:\a.exe`], "descriptions are cached per executable")
}

func TestResolveEntry_NamePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{name: "description wins", title: "Untitled - Notepad", description: "Notepad", want: "Notepad"},
		{name: "title when no description", title: "Untitled - Notepad", description: "", want: "Untitled - Notepad"},
		{name: "file name last", title: "  ", description: "", want: "notepad"},
		{name: "blank description ignored", title: "Editor", description: "   ", want: "Editor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.NewMockWindowDirectory().
				WithVisibleWindow(7, tt.title, 70).
				WithProcess(70, `C:\Windows\notepad.exe`, tt.description)

			e := newScanner(t, dir).ResolveEntry(7)
			require.NotNil(t, e)
			assert.Equal(t, tt.want, e.DisplayName())
			assert.Equal(t, `C:\Windows\notepad.exe`, e.Path())
			assert.Equal(t, apps.ModeFunction, e.Mode())
		})
	}
}

func TestResolveEntry_Failures(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithVisibleWindow(1, "Orphan", 0).
		WithVisibleWindow(2, "Denied", 20).
		WithVisibleWindow(3, "Exited", 30).
		WithDeniedProcess(20)

	s := newScanner(t, dir)
	for _, hwnd := range []uintptr{1, 2, 3, 404} {
		assert.Nil(t, s.ResolveEntry(hwnd), "hwnd %d", hwnd)
	}
}

func TestEntryAt(t *testing.T) {
	t.Parallel()

	own := testutil.MockWindow{Hwnd: 1, Title: "akcfg", Pid: 1, Visible: true, Rect: interfaces.Rect{Right: 500, Bottom: 500}}
	dir := testutil.NewMockWindowDirectory().
		WithWindow(own).
		WithWindow(testutil.MockWindow{Hwnd: 2, Title: "Hidden", Pid: 2, Rect: interfaces.Rect{Right: 500, Bottom: 500}}).
		WithWindow(testutil.MockWindow{Hwnd: 3, Title: "Dialog", Pid: 4, Visible: true, Owner: 4, Rect: interfaces.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200}}).
		WithWindow(testutil.MockWindow{Hwnd: 4, Title: "Main", Pid: 4, Visible: true, Rect: interfaces.Rect{Left: 50, Top: 50, Right: 400, Bottom: 400}}).
		WithProcess(1, `C:\akcfg.exe`, "").
		WithProcess(2, `C:\hidden.exe`, "").
		WithProcess(4, `C:\app.exe`, "App")

	s := newScanner(t, dir)

	e, bounds, ok := s.EntryAt(interfaces.Point{X: 150, Y: 150}, own.Hwnd)
	require.True(t, ok)
	assert.Equal(t, `C:\app.exe`, e.Path())
	assert.Equal(t, "App", e.DisplayName())
	assert.Equal(t, interfaces.Rect{Left: 50, Top: 50, Right: 400, Bottom: 400}, bounds, "bounds are the root owner's")

	e, _, ok = s.EntryAt(interfaces.Point{X: 300, Y: 300}, own.Hwnd)
	require.True(t, ok)
	assert.Equal(t, `C:\app.exe`, e.Path())

	_, _, ok = s.EntryAt(interfaces.Point{X: 450, Y: 450}, own.Hwnd)
	assert.False(t, ok, "only skipped and hidden windows cover this point")

	e, _, ok = s.EntryAt(interfaces.Point{X: 450, Y: 450})
	require.True(t, ok)
	assert.Equal(t, `C:\akcfg.exe`, e.Path())
}

func TestEntryUnderCursor(t *testing.T) {
	t.Parallel()

	dir := testutil.NewMockWindowDirectory().
		WithWindow(testutil.MockWindow{Hwnd: 1, Title: "App", Pid: 1, Visible: true, Rect: interfaces.Rect{Right: 10, Bottom: 10}}).
		WithProcess(1, `C:\app.exe`, "")
	s := newScanner(t, dir)

	_, _, ok := s.EntryUnderCursor()
	assert.False(t, ok, "no cursor position")

	dir.WithCursor(5, 5)
	e, _, ok := s.EntryUnderCursor()
	require.True(t, ok)
	assert.Equal(t, `C:\app.exe`, e.Path())
}

func TestSelf(t *testing.T) {
	t.Parallel()

	self := scanner.Self()
	require.NotNil(t, self)
	assert.NotEmpty(t, self.Path())
	assert.NotEmpty(t, self.DisplayName())
}

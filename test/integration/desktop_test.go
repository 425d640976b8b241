//go:build integration && windows

package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/logger"
	"github.com/Norgate-AV/akcfg/internal/scanner"
	"github.com/Norgate-AV/akcfg/internal/store"
	"github.com/Norgate-AV/akcfg/internal/windows"
)

// testRoot returns a per-run key below HKCU that is removed on cleanup.
func testRoot(t *testing.T) string {
	t.Helper()

	root := fmt.Sprintf(`Software\akcfg-integration\%d`, time.Now().UnixNano())
	reg := store.NewRegistry()

	t.Cleanup(func() {
		if err := reg.DeleteTree(root); err != nil {
			t.Logf("Failed to remove %s: %v", root, err)
		}
	})

	return root
}

func newCatalog(t *testing.T, root string) *apps.Catalog {
	t.Helper()

	log := logger.NewNoOpLogger()
	repo := apps.NewRepository(store.NewRegistry(), log, apps.RepositoryOptions{
		Root:  root,
		Icons: windows.NewWindowsAPI(log),
	})

	c := apps.NewCatalog(repo, log)
	c.Load()
	return c
}

// TestIntegration_RegistryLifecycle adds, edits and removes an entry in the
// real per-user registry and reloads the catalog after every step.
func TestIntegration_RegistryLifecycle(t *testing.T) {
	root := testRoot(t)

	exe := filepath.Join(os.Getenv("SystemRoot"), "System32", "notepad.exe")
	require.FileExists(t, exe)

	c := newCatalog(t, root)
	require.Zero(t, c.Len())

	e := apps.NewBuilder().DisplayName("Integration").Path(exe).Mode(apps.ModeHome).Build()
	added, err := c.Add(e)
	require.NoError(t, err)
	require.True(t, added)

	require.NoError(t, c.Rename(e, "Integration Renamed"))
	require.NoError(t, c.CycleMode(e))

	reloaded := newCatalog(t, root)
	require.Equal(t, 1, reloaded.Len())

	got := reloaded.Entries()[0]
	assert.Equal(t, "Integration Renamed", got.DisplayName())
	assert.Equal(t, apps.ModeWebBrowser, got.Mode())
	assert.Equal(t, exe, got.Path())
	assert.NotNil(t, got.Icon())

	require.NoError(t, reloaded.Remove(got))
	assert.Zero(t, newCatalog(t, root).Len())
}

// TestIntegration_Scan checks that a scan of the real desktop yields
// distinct entries with executable paths.
func TestIntegration_Scan(t *testing.T) {
	log := logger.NewNoOpLogger()

	s, err := scanner.New(windows.NewWindowsAPI(log), log, 0)
	require.NoError(t, err)

	candidates := slices.Collect(s.Candidates([]*apps.Entry{scanner.Self()}))

	seen := make(map[string]bool)
	for _, e := range candidates {
		assert.NotEmpty(t, e.Path())
		assert.NotEmpty(t, e.DisplayName())
		assert.False(t, seen[e.Path()], "duplicate candidate %s", e.Path())
		seen[e.Path()] = true
	}
}

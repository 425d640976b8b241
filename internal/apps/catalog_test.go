package apps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/logger"
	"github.com/Norgate-AV/akcfg/internal/store"
	"github.com/Norgate-AV/akcfg/internal/testutil"
)

func newCatalog(t *testing.T, values map[string]string) (*apps.Catalog, store.Store) {
	t.Helper()

	mem := testutil.SeedStore(t, testRoot, values)
	c := apps.NewCatalog(newRepo(mem, nil), logger.NewNoOpLogger())
	c.Load()

	return c, mem
}

type recorded struct {
	entry  *apps.Entry
	change apps.Change
}

func record(c *apps.Catalog) *[]recorded {
	var got []recorded
	c.Subscribe(func(e *apps.Entry, ch apps.Change) {
		got = append(got, recorded{entry: e, change: ch})
	})

	return &got
}

func TestCatalog_Load(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, map[string]string{
		`Function\Calculator`: `C:\calc.exe`,
		`Home\Notes`:          `C:\notes.exe`,
	})

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "Calculator", c.Entries()[0].DisplayName())
	assert.Same(t, c.Entries()[1], c.Find(`C:\notes.exe`))
	assert.Same(t, c.Entries()[1], c.Lookup(apps.ModeHome, "NOTES"))
	assert.Nil(t, c.Lookup(apps.ModeFunction, "Notes"))
}

func TestCatalog_Add(t *testing.T) {
	t.Parallel()

	c, mem := newCatalog(t, map[string]string{`Function\Calculator`: `C:\calc.exe`})

	e := apps.NewBuilder().DisplayName("Notes").Path(`C:\notes.exe`).Mode(apps.ModeHome).Build()
	added, err := c.Add(e)
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, 0, c.Index(e), "new entries go to the front")
	v, err := mem.GetString(store.Join(testRoot, "Home", "Notes"), apps.ValueAppPath)
	require.NoError(t, err)
	assert.Equal(t, `C:\notes.exe`, v)
}

func TestCatalog_AddIgnored(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, map[string]string{`Function\Calculator`: `C:\calc.exe`})

	tests := []struct {
		name  string
		entry *apps.Entry
	}{
		{name: "nil", entry: nil},
		{name: "no path", entry: apps.NewBuilder().DisplayName("Empty").Build()},
		{name: "duplicate path", entry: apps.NewBuilder().DisplayName("Other").Path(`C:\calc.exe`).Mode(apps.ModeHome).Build()},
	}

	for _, tt := range tests {
		added, err := c.Add(tt.entry)
		require.NoError(t, err, tt.name)
		assert.False(t, added, tt.name)
	}

	assert.Equal(t, 1, c.Len())
}

func TestCatalog_AddKeyInUse(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, map[string]string{`Function\Calculator`: `C:\calc.exe`})

	e := apps.NewBuilder().DisplayName("calculator").Path(`C:\other\calc.exe`).Build()
	added, err := c.Add(e)

	assert.ErrorIs(t, err, apps.ErrKeyInUse)
	assert.False(t, added)
	assert.Equal(t, 1, c.Len())
}

func TestCatalog_RenameNotifiesBeforePersisting(t *testing.T) {
	t.Parallel()

	c, mem := newCatalog(t, map[string]string{`Home\Notes`: `C:\notes.exe`})
	m := mem.(*store.Memory)
	notes := c.Entries()[0]

	var storedDuringNotify bool
	c.Subscribe(func(e *apps.Entry, ch apps.Change) {
		storedDuringNotify = testutil.KeyExists(m, store.Join(testRoot, "Home", "Notebook"))
		assert.Equal(t, "Notebook", e.DisplayName())
		assert.Equal(t, apps.FieldDisplayName, ch.Field)
		assert.Equal(t, "Notes", ch.Previous)
	})

	require.NoError(t, c.Rename(notes, "  Notebook "))

	assert.False(t, storedDuringNotify, "observers run before storage is updated")
	assert.False(t, testutil.KeyExists(m, store.Join(testRoot, "Home", "Notes")))
	assert.True(t, testutil.KeyExists(m, store.Join(testRoot, "Home", "Notebook")))
}

func TestCatalog_RenameValidation(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, map[string]string{
		`Home\Notes`: `C:\notes.exe`,
		`Home\Mail`:  `C:\mail.exe`,
	})
	notes := c.Lookup(apps.ModeHome, "Notes")
	events := record(c)

	assert.ErrorIs(t, c.Rename(notes, "   "), apps.ErrEmptyName)
	assert.ErrorIs(t, c.Rename(notes, "mail"), apps.ErrKeyInUse)
	assert.NoError(t, c.Rename(notes, "Notes"), "unchanged name is a no-op")

	stranger := apps.NewBuilder().DisplayName("X").Path(`C:\x.exe`).Build()
	assert.ErrorIs(t, c.Rename(stranger, "Y"), apps.ErrNotInCatalog)

	assert.Empty(t, *events)
	assert.Equal(t, "Notes", notes.DisplayName())
}

func TestCatalog_CycleMode(t *testing.T) {
	t.Parallel()

	c, mem := newCatalog(t, map[string]string{`WebConference\Meet`: `C:\meet.exe`})
	m := mem.(*store.Memory)
	meet := c.Entries()[0]
	events := record(c)

	require.NoError(t, c.CycleMode(meet))

	assert.Equal(t, apps.ModeFunction, meet.Mode())
	assert.Equal(t, []string{store.Join(testRoot, "Function", "Meet")}, testutil.AppPathKeys(m, testRoot))
	require.Len(t, *events, 1)
	assert.Equal(t, apps.KindIdentity, (*events)[0].change.Kind())
}

func TestCatalog_SetModeRejects(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, map[string]string{
		`Home\Notes`:     `C:\notes.exe`,
		`Function\Notes`: `C:\other\notes.exe`,
	})
	home := c.Lookup(apps.ModeHome, "Notes")

	assert.Error(t, c.SetMode(home, apps.Mode(9)))
	assert.ErrorIs(t, c.SetMode(home, apps.ModeFunction), apps.ErrKeyInUse)
	assert.Equal(t, apps.ModeHome, home.Mode())
}

func TestCatalog_SetPath(t *testing.T) {
	t.Parallel()

	mem := testutil.SeedStore(t, testRoot, map[string]string{
		`Home\Notes`: `C:\notes.exe`,
		`Home\Mail`:  `C:\mail.exe`,
	})
	icons := testutil.NewMockIconLoader().WithIcon(`D:\notes.exe`, 16)
	c := apps.NewCatalog(newRepo(mem, icons), logger.NewNoOpLogger())
	c.Load()

	notes := c.Lookup(apps.ModeHome, "Notes")
	events := record(c)

	assert.ErrorIs(t, c.SetPath(notes, `C:\mail.exe`), apps.ErrDuplicatePath)
	assert.Error(t, c.SetPath(notes, "  "))
	assert.Empty(t, *events)

	require.NoError(t, c.SetPath(notes, `D:\notes.exe`))

	v, err := mem.GetString(store.Join(testRoot, "Home", "Notes"), apps.ValueAppPath)
	require.NoError(t, err)
	assert.Equal(t, `D:\notes.exe`, v)
	assert.NotNil(t, notes.Icon())

	require.Len(t, *events, 2)
	assert.Equal(t, apps.FieldPath, (*events)[0].change.Field)
	assert.Equal(t, apps.FieldIcon, (*events)[1].change.Field)
}

func TestCatalog_TwoPhaseRemoval(t *testing.T) {
	t.Parallel()

	c, mem := newCatalog(t, map[string]string{
		`Function\Calculator`: `C:\calc.exe`,
		`Home\Notes`:          `C:\notes.exe`,
	})
	m := mem.(*store.Memory)
	notes := c.Lookup(apps.ModeHome, "Notes")
	events := record(c)

	c.MarkPendingRemoval(notes)
	c.MarkPendingRemoval(notes)

	assert.True(t, notes.PendingRemoval())
	assert.Len(t, *events, 1, "marking twice notifies once")
	assert.True(t, testutil.KeyExists(m, store.Join(testRoot, "Home", "Notes")), "storage untouched until finalize")
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Finalize(notes))
	require.NoError(t, c.Finalize(notes), "finalizing a removed entry is a no-op")

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, -1, c.Index(notes))
	assert.False(t, testutil.KeyExists(m, store.Join(testRoot, "Home", "Notes")))

	c.Load()
	assert.Nil(t, c.Find(`C:\notes.exe`), "removed entries are not reconstructed")
}

func TestCatalog_FinalizeFailureKeepsEntry(t *testing.T) {
	t.Parallel()

	fs := &failingStore{Store: testutil.SeedStore(t, testRoot, map[string]string{`Home\Notes`: `C:\notes.exe`})}
	c := apps.NewCatalog(newRepo(fs, nil), logger.NewNoOpLogger())
	c.Load()
	notes := c.Entries()[0]

	fs.failDelete = true
	err := c.Remove(notes)

	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 0, c.Index(notes))
	assert.True(t, notes.HasStorageKey())
}

func TestCatalog_PersistFailureIsReturned(t *testing.T) {
	t.Parallel()

	fs := &failingStore{Store: testutil.SeedStore(t, testRoot, map[string]string{`Home\Notes`: `C:\notes.exe`})}
	c := apps.NewCatalog(newRepo(fs, nil), logger.NewNoOpLogger())
	c.Load()
	notes := c.Entries()[0]
	events := record(c)

	fs.failSet = true
	err := c.CycleMode(notes)

	assert.ErrorIs(t, err, errInjected)
	assert.Len(t, *events, 1, "observers saw the in-memory change")
	assert.False(t, notes.HasStorageKey())
}

func TestCatalog_IgnoreSet(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, map[string]string{`Home\Notes`: `C:\notes.exe`})
	self := apps.NewBuilder().Path(`C:\tools\akcfg.exe`).Build()

	got := c.IgnoreSet(self, nil)
	require.Len(t, got, 2)
	assert.Same(t, self, got[1])
	assert.Equal(t, 1, c.Len())
}

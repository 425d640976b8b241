package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/akcfg/internal/store"
	"github.com/Norgate-AV/akcfg/internal/testutil"
)

func TestJoinAndSplit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `Software\Row\Home`, store.Join(`Software\Row\`, "", "Home"))
	assert.Equal(t, []string{"Software", "Row", "Home"}, store.Split(`\Software\\Row\Home\`))
	assert.Empty(t, store.Split(""))
}

func TestSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Notes", want: "Notes"},
		{in: `Foo\Bar`, want: "Foo_Bar"},
		{in: "  padded ", want: "padded"},
		{in: "a/b", want: "a/b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, store.Segment(tt.in), tt.in)
	}
}

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	require.NoError(t, m.SetString(`Row\Home\Notes`, "AppPath", `C:\notes.exe`))

	v, err := m.GetString(`row\HOME\notes`, "apppath")
	require.NoError(t, err)
	assert.Equal(t, `C:\notes.exe`, v)
}

func TestMemory_GetMissing(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	require.NoError(t, m.SetString(`Row\Home\Notes`, "Other", "x"))

	_, err := m.GetString(`Row\Home\Notes`, "AppPath")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = m.GetString(`Row\Missing`, "AppPath")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemory_SubKeysSortedCaseInsensitive(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	for _, name := range []string{"zeta", "Alpha", "beta"} {
		require.NoError(t, m.SetString(store.Join("Row", "Home", name), "AppPath", name))
	}

	names, err := m.SubKeys(`Row\Home`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names)

	names, err = m.SubKeys(`Row\Nowhere`)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemory_DeleteTree(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	require.NoError(t, m.SetString(`Row\Home\Notes`, "AppPath", "a"))
	require.NoError(t, m.SetString(`Row\Home\Notes\Nested`, "Extra", "b"))
	require.NoError(t, m.SetString(`Row\Home\Calc`, "AppPath", "c"))

	require.NoError(t, m.DeleteTree(`row\home\NOTES`))

	assert.False(t, testutil.KeyExists(m, `Row\Home\Notes`))
	assert.False(t, testutil.KeyExists(m, `Row\Home\Notes\Nested`))
	assert.True(t, testutil.KeyExists(m, `Row\Home\Calc`))

	// second delete is a no-op
	require.NoError(t, m.DeleteTree(`Row\Home\Notes`))
	require.NoError(t, m.DeleteTree(`Nothing\Here`))
}

func TestMemory_RefusesRoot(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	assert.Error(t, m.SetString("", "AppPath", "x"))
	assert.Error(t, m.DeleteTree(`\`))
}

func TestAppPathKeys(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	require.NoError(t, m.SetString(`Row\Home\Notes`, "AppPath", "a"))
	require.NoError(t, m.SetString(`Row\Function\Calculator`, "AppPath", "b"))

	assert.Equal(t, []string{`Row\Function\Calculator`, `Row\Home\Notes`}, testutil.AppPathKeys(m, "Row"))
	assert.Nil(t, testutil.AppPathKeys(m, "Missing"))
}

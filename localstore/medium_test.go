package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMedium_RoundTrip(t *testing.T) {
	medium, err := NewFileMedium(t.TempDir())
	require.NoError(t, err)

	_, ok, err := medium.Get(KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok, "fresh directory has no keys")

	require.NoError(t, medium.Set(KeyUsers, `[{"id":"u1"}]`))

	got, ok, err := medium.Get(KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"u1"}]`, got)

	// Set replaces the whole value.
	require.NoError(t, medium.Set(KeyUsers, `[]`))
	got, ok, err = medium.Get(KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, got)
}

func TestFileMedium_DeleteAbsentKey(t *testing.T) {
	medium, err := NewFileMedium(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, medium.Delete("never-written"))

	require.NoError(t, medium.Set(KeyAnnouncements, "[]"))
	require.NoError(t, medium.Delete(KeyAnnouncements))
	_, ok, err := medium.Get(KeyAnnouncements)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileMedium_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	medium, err := NewFileMedium(dir)
	require.NoError(t, err)
	require.NoError(t, medium.Set(KeyUsers, `["persisted"]`))

	reopened, err := NewFileMedium(dir)
	require.NoError(t, err)
	got, ok, err := reopened.Get(KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["persisted"]`, got)
}

package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Init(filepath.Join(t.TempDir(), "test.db"), false))
	t.Cleanup(func() { _ = Close() })
}

func TestSettingRepoRoundTrip(t *testing.T) {
	initTestDB(t)
	repo := NewSettingRepo()

	require.NoError(t, repo.Set("window.width", "1200"))

	v, err := repo.Get("window.width")
	require.NoError(t, err)
	assert.Equal(t, "1200", v)
}

func TestSettingRepoUpsert(t *testing.T) {
	initTestDB(t)
	repo := NewSettingRepo()

	require.NoError(t, repo.Set("ui.lang", "en"))
	require.NoError(t, repo.Set("ui.lang", "zh"))

	v, err := repo.Get("ui.lang")
	require.NoError(t, err)
	assert.Equal(t, "zh", v)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettingRepoMissingKey(t *testing.T) {
	initTestDB(t)
	repo := NewSettingRepo()

	_, err := repo.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingRepoDelete(t *testing.T) {
	initTestDB(t)
	repo := NewSettingRepo()

	require.NoError(t, repo.Set("device.id", "abc"))
	require.NoError(t, repo.Delete("device.id"))

	_, err := repo.Get("device.id")
	assert.ErrorIs(t, err, ErrNotFound)
}

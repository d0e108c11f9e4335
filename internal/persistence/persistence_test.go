package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "data"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, KeyDocument)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, KeyDocument, []byte(`{"summary":"hi"}`)))
	got, err := store.Load(ctx, KeyDocument)
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"hi"}`, string(got))

	_, err = os.Stat(filepath.Join(dir, "data", KeyDocument+".json"))
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, KeyDocument))
	require.NoError(t, store.Delete(ctx, KeyDocument), "deleting twice is fine")
	_, err = store.Load(ctx, KeyDocument)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, store.Save(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got), "store must not alias caller buffers")
	assert.Equal(t, 1, store.Saves())

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Load(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Equal(t, ThemeDark, LoadTheme(ctx, store), "default theme is dark")

	require.NoError(t, SaveTheme(ctx, store, ThemeLight))
	assert.Equal(t, ThemeLight, LoadTheme(ctx, store))

	require.NoError(t, store.Save(ctx, KeyTheme, []byte("sepia")))
	assert.Equal(t, ThemeDark, LoadTheme(ctx, store), "invalid stored theme falls back")
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme(" Light ")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	_, err = ParseTheme("blue")
	assert.Error(t, err)
}

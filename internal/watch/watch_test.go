package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTiledFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"level.tmx", true},
		{"maps/LEVEL.TMX", true},
		{"tiles.tsx", true},
		{"tiles.png", false},
		{"level.tmx.bak", false},
		{"tmx", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTiledFile(tt.path), tt.path)
	}
}

func TestWatcherReportsMapWrites(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level.tmx"), []byte("<map/>"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, filepath.Join(dir, "level.tmx"), name)
	case err := <-w.Errors:
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for level.tmx")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

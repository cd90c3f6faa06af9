package dvobjpath

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HVML/PurC-sub012/internal/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathSplitsAndDropsEmpty(t *testing.T) {
	dirs := ParsePath("/a/b::/c/d:")
	assert.Equal(t, []string{"/a/b", "/c/d"}, dirs)
}

func TestParsePathEmptyValue(t *testing.T) {
	assert.Empty(t, ParsePath(""))
}

func TestFromEnvReadsDvobjsPath(t *testing.T) {
	os.Setenv("PURC_DVOBJS_PATH", "/opt/dvobjs:/usr/local/dvobjs")
	defer os.Unsetenv("PURC_DVOBJS_PATH")

	snap := env.Capture("PURC_")
	dirs := FromEnv(snap)
	assert.Equal(t, []string{"/opt/dvobjs", "/usr/local/dvobjs"}, dirs)
}

func TestWatcherFiresOnFileCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{dir})
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "plugin.so")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	select {
	case ev := <-w.Events:
		assert.Equal(t, path, ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
}

func TestNewWatcherSkipsMissingDirectory(t *testing.T) {
	w, err := NewWatcher([]string{"/does/not/exist"})
	require.NoError(t, err)
	defer w.Close()
}

package instance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvFillsOnlyZeroFields(t *testing.T) {
	os.Setenv("PURC_NAME", "from-env")
	os.Setenv("PURC_KEEP_ALIVE", "true")
	defer os.Unsetenv("PURC_NAME")
	defer os.Unsetenv("PURC_KEEP_ALIVE")

	opts := Options{Name: "explicit"}.ApplyEnv()

	assert.Equal(t, "explicit", opts.Name)
	assert.True(t, opts.KeepAlive)
}

func TestLoadYAMLFillsOnlyZeroFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-yaml\nkeep_alive: true\n"), 0o644))

	opts, err := LoadYAML(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", opts.Name)
	assert.True(t, opts.KeepAlive)

	opts2, err := LoadYAML(path, Options{Name: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", opts2.Name)
}

func TestLoadYAMLMissingFileReturnsError(t *testing.T) {
	_, err := LoadYAML("/nonexistent/instance.yaml", Options{})
	assert.Error(t, err)
}

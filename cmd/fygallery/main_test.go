package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fygallery/internal/config"
)

// executeCommandC runs the command with a recording RunFunc.
func executeCommandC(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvConfigPath, "")

	var got *config.Config
	root := NewRootCmd(func(cfg *config.Config, _ *slog.Logger) error {
		got = cfg
		return nil
	})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return got, err
}

func TestDefaults(t *testing.T) {
	cfg, err := executeCommandC(t)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Interval())
	assert.False(t, cfg.UI.Fullscreen)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[dataset]
catalog = "/var/lib/fygallery/catalog.db"

[slideshow]
interval_ms = 9000

[audio]
location = "loop.mp3"
`), 0644))

	cfg, err := executeCommandC(t, "--config", path, "--manifest", "album.yaml", "--interval", "2s", "--fullscreen")
	require.NoError(t, err)
	assert.Equal(t, "album.yaml", cfg.Dataset.Manifest)
	assert.Empty(t, cfg.Dataset.Catalog, "a dataset flag replaces the configured dataset")
	assert.Equal(t, 2*time.Second, cfg.Interval())
	assert.True(t, cfg.UI.Fullscreen)
	assert.Equal(t, "loop.mp3", cfg.Audio.Location)
}

func TestDirectoryArgument(t *testing.T) {
	cfg, err := executeCommandC(t, "/photos")
	require.NoError(t, err)
	assert.Equal(t, "/photos", cfg.Dataset.Directory)
}

func TestInvalidOptions(t *testing.T) {
	_, err := executeCommandC(t, "--interval", "0s")
	assert.ErrorContains(t, err, "interval_ms")

	_, err = executeCommandC(t, "--log-level", "loud")
	assert.Error(t, err)
}

package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Bridge.Port)
	assert.Equal(t, 5, cfg.Daemon.PollIntervalSec)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[daemon]\nbin_path = \"/opt/ipfs/ipfs\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/ipfs/ipfs", cfg.Daemon.BinPath)
	assert.Equal(t, 5, cfg.Daemon.PollIntervalSec)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Bridge.Port = 38421
	cfg.Daemon.RepoPath = "/data/ipfs"
	cfg.Log.Level = "debug"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Bridge.Port, loaded.Bridge.Port)
	assert.Equal(t, cfg.Daemon.RepoPath, loaded.Daemon.RepoPath)
	assert.Equal(t, cfg.Log.Level, loaded.Log.Level)
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

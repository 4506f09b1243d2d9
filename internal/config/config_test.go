package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mcserverd/internal/config"
	"mcserverd/internal/registry"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("online_mode: true\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.EqualValues(t, 25565, cfg.Port)
	require.EqualValues(t, 20, cfg.MaxPlayers)
	require.True(t, cfg.OnlineMode, "online_mode should have been preserved from the file")
	require.Equal(t, registry.Survival, cfg.DefaultGamemode.Ordinal())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFaviconDataURIEmptyWhenUnset(t *testing.T) {
	cfg := &config.ServerConfig{}
	uri, err := cfg.FaviconDataURI()
	require.NoError(t, err)
	require.Empty(t, uri)
}

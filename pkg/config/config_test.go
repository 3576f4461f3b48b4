package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `{"secret": "abc123"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, defaultHTTPPort, cfg.HTTPPort)
	require.Equal(t, defaultListenAddr, cfg.Address)
}

func TestLoadRequiresSecret(t *testing.T) {
	path := writeConfig(t, `{"http_port": 9000}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	path := writeConfig(t, `{
		"secret": "abc123",
		"http_port": 9001,
		"address": "/ip4/127.0.0.1/tcp/4001",
		"storage_path": "/tmp/data",
		"nodes": ["/ip4/1.2.3.4/tcp/4001/p2p/Qm123"],
		"logs": {"level": "debug", "dir": "/tmp/logs"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9001, cfg.HTTPPort)
	require.Equal(t, "/ip4/127.0.0.1/tcp/4001", cfg.Address)
	require.Equal(t, "/tmp/data", cfg.StoragePath)
	require.Equal(t, []string{"/ip4/1.2.3.4/tcp/4001/p2p/Qm123"}, cfg.Nodes)
	require.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, `not json`)
	_, err := Load(path)
	require.Error(t, err)
}

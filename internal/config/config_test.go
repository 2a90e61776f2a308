package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Empty(t, cfg.GRPCAddr)
	assert.Equal(t, "/api/shodan", cfg.Upstream.HostInfoPath)
	assert.Equal(t, "/api/virustotal", cfg.Upstream.VulnPath)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threatscope.yaml")
	body := `
http_addr: ":7000"
grpc_addr: ":7001"
upstream:
  base_url: "http://intel.internal"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("TS_HTTP_ADDR", ":7100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7100", cfg.HTTPAddr)
	assert.Equal(t, ":7001", cfg.GRPCAddr)
	assert.Equal(t, "http://intel.internal", cfg.Upstream.BaseURL)
	assert.Equal(t, "/api/shodan", cfg.Upstream.HostInfoPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("upstream: [nope"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

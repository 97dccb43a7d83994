package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8420, cfg.Service.Port)
}

func TestLoadFromStringOverridesDefaults(t *testing.T) {
	cfg, err := LoadFromString(`
[service]
port = 9999
`)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Service.Port)
	assert.Equal(t, "127.0.0.1", cfg.Service.Host)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Port = 0
	require.Error(t, cfg.Validate())
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Ai.Providers[0].Name = "changed"
	assert.NotEqual(t, cfg.Ai.Providers[0].Name, clone.Ai.Providers[0].Name)
}

func TestProjectHashStable(t *testing.T) {
	a := ProjectHash("/tmp/project")
	b := ProjectHash("/tmp/project")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

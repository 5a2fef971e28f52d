package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFileWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
http:
  address: ":9090"
llm:
  apiKey: file-llm-key
catalog:
  apiKey: file-catalog-key
weather:
  cacheTtl: 30m
recommend:
  maxCandidates: 25
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_API_KEY", "env-llm-key")
	t.Setenv("RECOMMEND_DEFAULT_TOP_N", "8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "env-llm-key", cfg.LLM.APIKey, "env beats file")
	require.Equal(t, "file-catalog-key", cfg.Catalog.APIKey)
	require.Equal(t, 30*time.Minute, cfg.Weather.CacheTTL)
	require.Equal(t, 25, cfg.Recommend.MaxCandidates)
	require.Equal(t, 8, cfg.Recommend.DefaultTopN)

	// Untouched sections keep their defaults.
	require.Equal(t, "https://api.anthropic.com", cfg.LLM.BaseURL)
	require.Equal(t, 50, defaultConfig().Recommend.MaxCandidates)
}

func TestLoadRejectsMissingAPIKeys(t *testing.T) {
	path := writeConfigFile(t, `
llm:
  apiKey: something
`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "catalog.apiKey")
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.Catalog.APIKey = "k"
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Recommend.MaxCandidates = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Weather.Valkey.Enabled = true
	require.Error(t, bad.Validate(), "valkey enabled needs an addr")

	bad = *cfg
	bad.HTTP.RateLimit.Enabled = true
	bad.HTTP.RateLimit.Burst = 0
	require.Error(t, bad.Validate())
}

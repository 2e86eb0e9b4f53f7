package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
market_api:
  base_url: http://market.local/api
view:
  render_budget: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MARKET_API_BASE_URL", "http://override.local/api")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override.local/api", cfg.MarketAPI.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.View.RenderBudget)
	assert.Equal(t, 3000, cfg.API.Port)
	assert.Equal(t, 10*time.Second, cfg.MarketAPI.Timeout)
	assert.Equal(t, 10, cfg.MarketAPI.HistoryPageSize)
	assert.Equal(t, "memory", cfg.Preference.Store)
	assert.Equal(t, 30*time.Minute, cfg.View.IdleTTL)
	assert.Equal(t, "@every 30s", cfg.Monitor.Schedule)
	assert.Equal(t, "info", cfg.Logger.Level)
}

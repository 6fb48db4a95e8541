package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "taskpilot", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Agent.ScoringIntervalDuration())
	assert.Equal(t, 10*time.Second, cfg.Agent.ScoringBackoffDuration())
	assert.Equal(t, 5*time.Minute, cfg.Agent.AdaptationIntervalDuration())
	assert.Equal(t, time.Minute, cfg.Agent.AdaptationDelayDuration())
	assert.False(t, cfg.Logging.DebugMode)
}

func TestLoadReadsYAML(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, ".taskpilot")
	require.NoError(t, os.MkdirAll(dir, 0755))
	yaml := `
name: custom
agent:
  scoring_interval: 2s
  recommendation_limit: 3
logging:
  debug_mode: true
  categories:
    loop: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 2*time.Second, cfg.Agent.ScoringIntervalDuration())
	assert.Equal(t, 3, cfg.Agent.RecommendationLimit)
	assert.True(t, cfg.Logging.DebugMode)
	assert.False(t, cfg.Logging.IsCategoryEnabled("loop"))
	assert.True(t, cfg.Logging.IsCategoryEnabled("tasks"), "unlisted categories default on in debug mode")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, ".taskpilot")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0644))

	_, err := Load(ws)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKPILOT_DB_PATH", "/tmp/override.db")
	t.Setenv("TASKPILOT_SCORING_INTERVAL", "7s")
	t.Setenv("TASKPILOT_DEBUG", "true")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Data.DatabasePath)
	assert.Equal(t, 7*time.Second, cfg.Agent.ScoringIntervalDuration())
	assert.True(t, cfg.Logging.DebugMode)
}

func TestSaveRoundtrip(t *testing.T) {
	ws := t.TempDir()
	cfg := DefaultConfig()
	cfg.Agent.ScoringInterval = "3s"
	require.NoError(t, cfg.Save(ws))

	loaded, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, loaded.Agent.ScoringIntervalDuration())
}

func TestDurationFallbacks(t *testing.T) {
	agent := AgentConfig{ScoringInterval: "not-a-duration", AdaptationInterval: "-5m"}
	assert.Equal(t, 5*time.Second, agent.ScoringIntervalDuration(), "garbage falls back")
	assert.Equal(t, 5*time.Minute, agent.AdaptationIntervalDuration(), "non-positive falls back")
}

func TestDatabasePathResolution(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/ws", ".taskpilot", "taskpilot.db"), cfg.DatabasePath("/ws"))

	cfg.Data.DatabasePath = "/var/lib/taskpilot.db"
	assert.Equal(t, "/var/lib/taskpilot.db", cfg.DatabasePath("/ws"))
}

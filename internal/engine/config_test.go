package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"frontline-server/internal/systems"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "overlord", cfg.Scenario)
	assert.Equal(t, "medium", cfg.Difficulty)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.False(t, cfg.Storage.Enabled)
	assert.NotZero(t, cfg.Seed, "нулевой сид заменяется временем")
	assert.Equal(t, systems.DefaultResourceConfig(), cfg.Resources)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontline.yaml")
	body := `
seed: 42
scenario: stalingrad
difficulty: hard
tickRate: 30
server:
  port: "9000"
storage:
  enabled: true
  path: battles.db
resources:
  moneyRate: 75
  max:
    money: 8000
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "stalingrad", cfg.Scenario)
	assert.Equal(t, systems.DifficultyHard, cfg.DifficultyLevel())
	assert.Equal(t, time.Second/30, cfg.TickInterval())
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "battles.db", cfg.Storage.Path)
	assert.Equal(t, 75.0, cfg.Resources.MoneyRate)
	assert.Equal(t, 8000.0, cfg.Resources.Max.Money)
	// Не заданное в файле берется из умолчаний
	assert.Equal(t, 100.0, cfg.Resources.Max.Fuel)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 42\nserver:\n  port: \"9000\"\n"), 0o644))

	t.Setenv("FRONTLINE_SERVER_PORT", "7777")
	t.Setenv("FRONTLINE_SCENARIO", "barbarossa")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, "barbarossa", cfg.Scenario)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfig_TickIntervalFallback(t *testing.T) {
	cfg := Config{TickRate: 0}
	assert.Equal(t, time.Second/60, cfg.TickInterval())
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.DrawSize)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogEncoding)
	assert.Zero(t, cfg.Seed)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"CHOICECORE_SEED":      "1234",
		"CHOICECORE_DRAW_SIZE": "4",
		"CHOICECORE_GAME_DIR":  "games/demo",
		"CHOICECORE_LOG_LEVEL": "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, 4, cfg.DrawSize)
	assert.Equal(t, "games/demo", cfg.GameDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFrom_Invalid(t *testing.T) {
	_, err := LoadFrom(map[string]string{"CHOICECORE_DRAW_SIZE": "0"})
	assert.Error(t, err)

	_, err = LoadFrom(map[string]string{"CHOICECORE_SEED": "many"})
	assert.Error(t, err)
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

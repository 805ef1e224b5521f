package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/geoscape/server/internal/config"
)

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = newLogger(config.LoggingConfig{Level: "nonsense", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel), "unknown level falls back to info")
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNewSeededRand(t *testing.T) {
	a := newSeededRand(42)
	b := newSeededRand(42)
	assert.Equal(t, a.Int63(), b.Int63())
}

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestTemporalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewTemporalLogger(zap.New(core))

	l.Info("Receipt generated", "number", 3, "total", int64(68000))
	l.With("sessionID", "pos-1").Warn("Action rejected", "action", "add-item")
	l.Debug("ignored level check")
	l.Error("Failed to load catalog")

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, "Receipt generated", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(3), entries[0].ContextMap()["number"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "pos-1", entries[1].ContextMap()["sessionID"])
	assert.Equal(t, "add-item", entries[1].ContextMap()["action"])

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

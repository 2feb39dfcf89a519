package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/goerrorkit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger, err := New("debug", "json", "schoolkit")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("bogus", "console", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestErrorkitLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var l goerrorkit.Logger = NewErrorkitLogger(zap.New(core))

	l.Error("boom", map[string]interface{}{"error_type": "SYSTEM", "status": 500})
	l.Warn("careful", nil)

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "SYSTEM", entry.ContextMap()["error_type"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewInstallsGlobal(t *testing.T) {
	prev := zap.L()
	defer zap.ReplaceGlobals(prev)

	logger, err := New("debug", "json")
	require.NoError(t, err)
	assert.Same(t, logger, zap.L())
	assert.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))

	_, err = New("warn", "console")
	require.NoError(t, err)
	assert.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)
	_, err = New("info", "xml")
	assert.Error(t, err)
}

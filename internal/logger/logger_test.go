package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"valentine-server/internal/logger"
)

func TestNew(t *testing.T) {
	t.Run("builds with the configured level", func(t *testing.T) {
		log, err := logger.New(logger.Config{Level: "debug", Encoding: "json"})
		require.NoError(t, err)
		defer log.Sync()

		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("defaults to info", func(t *testing.T) {
		log, err := logger.New(logger.Config{})
		require.NoError(t, err)
		defer log.Sync()

		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		log, err := logger.New(logger.Config{Level: "loud"})
		require.NoError(t, err)
		defer log.Sync()

		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("console encoding is accepted", func(t *testing.T) {
		log, err := logger.New(logger.Config{Level: "warn", Encoding: "console"})
		require.NoError(t, err)
		defer log.Sync()

		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	})
}

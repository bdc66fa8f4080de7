package config_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/config"
	"github.com/jaminalder/tictactoe/internal/domain"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.HeartbeatInterval)

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, app.DefaultSettings(), settings)
}

func TestDefault_FromEnvironment(t *testing.T) {
	t.Setenv("TICTACTOE_ADDR", "127.0.0.1:9999")
	t.Setenv("TICTACTOE_MODE", "computer")
	t.Setenv("TICTACTOE_DIFFICULTY", "hard")
	t.Setenv("TICTACTOE_COMPUTER_MARK", "x")
	t.Setenv("TICTACTOE_HEARTBEAT", "2s")
	t.Setenv("TICTACTOE_SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, 2*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, app.Settings{Mode: app.Computer, Difficulty: ai.ExhaustiveSearch, ComputerMark: domain.X}, settings)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Addr = ""
	cfg.LogLevel = "loud"
	cfg.LogFormat = "xml"
	cfg.ComputerMark = "Z"
	cfg.HeartbeatInterval = 0

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	for _, want := range []string{"addr", "log level", "log format", "computer mark", "heartbeat"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_BadDifficulty(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultDifficulty = "impossible"
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogFormat = "text"
	cfg.LogLevel = "warn"
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")

	buf.Reset()
	cfg.LogFormat = "json"
	cfg.LogLevel = "debug"
	cfg.NewLogger(&buf).Debug("detail")
	assert.Contains(t, buf.String(), `"msg":"detail"`)
}

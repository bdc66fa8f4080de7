package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the server and logging settings. Defaults come from TICTACTOE_*
// environment variables; command-line flags override them.
type Config struct {
	Addr              string
	LogLevel          string
	LogFormat         string
	DefaultMode       string
	DefaultDifficulty string
	ComputerMark      string
	HeartbeatInterval time.Duration
	ShutdownTimeout   time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
}

// Default returns a Config read from the environment.
func Default() *Config {
	return &Config{
		Addr:              getEnvOrDefault("TICTACTOE_ADDR", ":8080"),
		LogLevel:          getEnvOrDefault("TICTACTOE_LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("TICTACTOE_LOG_FORMAT", "json"),
		DefaultMode:       getEnvOrDefault("TICTACTOE_MODE", app.TwoPlayer.String()),
		DefaultDifficulty: getEnvOrDefault("TICTACTOE_DIFFICULTY", ai.Heuristic.String()),
		ComputerMark:      getEnvOrDefault("TICTACTOE_COMPUTER_MARK", domain.O.String()),
		HeartbeatInterval: getDurationOrDefault("TICTACTOE_HEARTBEAT", 15*time.Second),
		ShutdownTimeout:   getDurationOrDefault("TICTACTOE_SHUTDOWN_TIMEOUT", 30*time.Second),
		ReadTimeout:       getDurationOrDefault("TICTACTOE_READ_TIMEOUT", 15*time.Second),
		// zero keeps event streams open
		WriteTimeout: getDurationOrDefault("TICTACTOE_WRITE_TIMEOUT", 0),
	}
}

// Validate checks every field and returns all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("log format %q: want json or text", c.LogFormat))
	}
	if _, err := c.Settings(); err != nil {
		errs = append(errs, err)
	}
	if c.HeartbeatInterval <= 0 {
		errs = append(errs, errors.New("heartbeat interval must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Settings are the defaults for games created without a form.
func (c *Config) Settings() (app.Settings, error) {
	mode, err := app.ParseMode(c.DefaultMode)
	if err != nil {
		return app.Settings{}, err
	}
	d, err := ai.ParseDifficulty(c.DefaultDifficulty)
	if err != nil {
		return app.Settings{}, err
	}
	mark, err := domain.ParseCell(c.ComputerMark)
	if err != nil || mark == domain.Empty {
		return app.Settings{}, fmt.Errorf("computer mark %q: want X or O", c.ComputerMark)
	}
	return app.Settings{Mode: mode, Difficulty: d, ComputerMark: mark}, nil
}

// NewLogger builds the slog logger described by the config.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

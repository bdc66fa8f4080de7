package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/web"
)

func newServeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, e, e.cfg.NewLogger(cmd.OutOrStdout()))
		},
	}
	cmd.Flags().StringVar(&e.cfg.Addr, "addr", e.cfg.Addr, "Listen address (env: TICTACTOE_ADDR)")
	cmd.Flags().StringVar(&e.cfg.LogFormat, "log-format", e.cfg.LogFormat, "Log format: json, text (env: TICTACTOE_LOG_FORMAT)")
	cmd.Flags().StringVar(&e.cfg.DefaultMode, "mode", e.cfg.DefaultMode, "Default game mode: two-player, computer (env: TICTACTOE_MODE)")
	cmd.Flags().StringVar(&e.cfg.DefaultDifficulty, "difficulty", e.cfg.DefaultDifficulty, "Default difficulty: easy, medium, hard (env: TICTACTOE_DIFFICULTY)")
	cmd.Flags().StringVar(&e.cfg.ComputerMark, "computer-mark", e.cfg.ComputerMark, "Mark the computer plays: X or O (env: TICTACTOE_COMPUTER_MARK)")
	cmd.Flags().DurationVar(&e.cfg.HeartbeatInterval, "heartbeat", e.cfg.HeartbeatInterval, "Keep-alive interval of event streams (env: TICTACTOE_HEARTBEAT)")
	cmd.Flags().DurationVar(&e.cfg.ShutdownTimeout, "shutdown-timeout", e.cfg.ShutdownTimeout, "Graceful shutdown limit (env: TICTACTOE_SHUTDOWN_TIMEOUT)")
	return cmd
}

// runServer serves until ctx ends, then shuts down gracefully.
func runServer(ctx context.Context, e *env, logger *slog.Logger) error {
	settings, err := e.cfg.Settings()
	if err != nil {
		return err
	}
	selector := ai.NewSelector(e.random)
	svc := app.NewService(selector, settings, e.clock, logger)
	handler := web.NewServer(svc, web.Options{
		Logger:            logger,
		Selector:          selector,
		HeartbeatInterval: e.cfg.HeartbeatInterval,
	})
	server := web.NewHTTPServer(handler, web.ServerConfig{
		Addr:            e.cfg.Addr,
		ReadTimeout:     e.cfg.ReadTimeout,
		WriteTimeout:    e.cfg.WriteTimeout,
		ShutdownTimeout: e.cfg.ShutdownTimeout,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
		return <-errCh
	}
}

package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe/internal/config"
	"github.com/jaminalder/tictactoe/internal/dependencies/clock"
	"github.com/jaminalder/tictactoe/internal/dependencies/random"
)

// deps are the collaborators the commands share; tests swap in mocks.
type deps struct {
	random random.Random
	clock  clock.Clock
	stderr io.Writer
}

// env is the state one invocation of the root command works with.
type env struct {
	deps
	cfg    *config.Config
	output string
}

func (e *env) out(cmd *cobra.Command) *Output {
	return NewOutput(e.output, cmd.OutOrStdout())
}

// cliLogger logs as text on stderr, the format a terminal reader wants.
func (e *env) cliLogger() *slog.Logger {
	cfg := *e.cfg
	cfg.LogFormat = "text"
	return cfg.NewLogger(e.stderr)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(deps{random: random.New(), clock: clock.New(), stderr: os.Stderr})
}

func newRootCmd(d deps) *cobra.Command {
	e := &env{deps: d, cfg: config.Default(), output: "text"}

	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-Tac-Toe server and terminal game",
		Long: `tictactoe serves a browser Tic-Tac-Toe game with move history and a
computer opponent, and offers the same engine on the command line.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if e.output != "text" && e.output != "json" {
				return errInvalidOutput(e.output)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&e.cfg.LogLevel, "log-level", e.cfg.LogLevel, "Log level: debug, info, warn, error (env: TICTACTOE_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVarP(&e.output, "output", "o", e.output, "Output format: text, json")

	rootCmd.AddCommand(newServeCmd(e))
	rootCmd.AddCommand(newPlayCmd(e))
	rootCmd.AddCommand(newMoveCmd(e))
	rootCmd.AddCommand(newAnalyzeCmd(e))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

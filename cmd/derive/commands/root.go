// Package commands implements the CLI commands for the derive tool.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.trai.ch/derive/internal/app"
	"go.trai.ch/derive/internal/build"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
)

// CLI represents the command line interface for derive.
type CLI struct {
	app       *app.App
	logger    ports.Logger
	telemetry ports.Telemetry
	rootCmd   *cobra.Command
}

type levelSetter interface {
	SetLevel(level slog.Level)
}

type traceSetter interface {
	SetOutput(w io.Writer)
}

// New creates a new CLI instance with the given app.
func New(a *app.App, logger ports.Logger, telemetry ports.Telemetry) *CLI {
	rootCmd := &cobra.Command{
		Use:           "derive",
		Short:         "Evaluate typed, derived arguments from a catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("catalog", "c", "catalog.yaml", "Path to the argument catalog")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Bool("trace", false, "Print every resolution to stderr")

	c := &CLI{
		app:       a,
		logger:    logger,
		telemetry: telemetry,
		rootCmd:   rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if trace, _ := cmd.Flags().GetBool("trace"); trace {
			if ts, ok := c.telemetry.(traceSetter); ok {
				ts.SetOutput(cmd.ErrOrStderr())
			}
		}

		ls, ok := c.logger.(levelSetter)
		if !ok {
			return nil
		}
		name, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		level := domain.ParseLogLevel(name)
		// --verbose wins over --log-level.
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = domain.LogLevelDebug
		}
		ls.SetLevel(slog.Level(level))
		return nil
	}

	rootCmd.AddCommand(c.newEvalCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// SetErr redirects command diagnostics. Used for testing.
func (c *CLI) SetErr(w io.Writer) {
	c.rootCmd.SetErr(w)
}

func catalogPath(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString("catalog")
}

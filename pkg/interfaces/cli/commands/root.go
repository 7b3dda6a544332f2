package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/config"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/metrics"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/interfaces/cli/output"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigFile string
	EnvFile    string
	Metrics    bool
}

// runtime carries the lazily built App through one invocation
type runtime struct {
	opts    *RootOptions
	factory AppFactory
	stderr  io.Writer
	app     *App
}

// App builds the application on first use so that help and flag errors never touch the store
func (rt *runtime) App() (*App, error) {
	if rt.app != nil {
		return rt.app, nil
	}

	cfg, err := config.Load(config.Options{ConfigFile: rt.opts.ConfigFile, EnvFile: rt.opts.EnvFile})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}
	logger, err := NewLogger(cfg, rt.opts.Verbose, rt.stderr)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure logging", err)
	}
	app, err := rt.factory(cfg, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "initialise store", err)
	}
	rt.app = app
	return app, nil
}

func (rt *runtime) renderer(cmd *cobra.Command) output.Renderer {
	return output.Renderer{Format: rt.opts.Format, Writer: cmd.OutOrStdout()}
}

// finish dumps metrics when requested and releases the store
func (rt *runtime) finish() {
	if rt.app == nil {
		return
	}
	if rt.opts.Metrics {
		samples, err := metrics.Snapshot(rt.app.Registry)
		if err != nil {
			rt.app.Logger.Warn("metrics unavailable", "error", err)
		}
		for _, s := range samples {
			rt.app.Logger.Info("metric", "name", s.Name, "labels", s.Labels, "value", s.Value)
		}
	}
	if err := rt.app.Close(); err != nil {
		rt.app.Logger.Warn("close store", "error", err)
	}
	rt.app = nil
}

// NewLogger builds the slog logger described by configuration; verbose forces debug level
func NewLogger(cfg *config.Config, verbose bool, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

// newRootCommand creates the root command for the clinicstock CLI.
func newRootCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clinicstock",
		Short:         "Clinic supply inventory and treatment schedule",
		Long:          "Tracks clinic supplies against a weekly treatment schedule: apply and undo sessions, restock, and forecast depletion.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !output.IsValidFormat(rt.opts.Format) {
				return usageError("invalid format %q: must be one of %v", rt.opts.Format, output.ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&rt.opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&rt.opts.Format, "format", output.FormatText, "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&rt.opts.ConfigFile, "config", "", "configuration file (default ./clinicstock.yaml)")
	cmd.PersistentFlags().StringVar(&rt.opts.EnvFile, "env-file", ".env", "dotenv file loaded before the environment")
	cmd.PersistentFlags().BoolVar(&rt.opts.Metrics, "metrics", false, "log gathered metrics after the command")

	// Add subcommands
	cmd.AddCommand(newItemCommand(rt))
	cmd.AddCommand(newImportCommand(rt))
	cmd.AddCommand(newProtocolCommand(rt))
	cmd.AddCommand(newSessionCommand(rt))
	cmd.AddCommand(newProjectCommand(rt))
	cmd.AddCommand(newSummaryCommand(rt))
	cmd.AddCommand(newPatientsCommand(rt))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code
func Execute(ctx context.Context, factory AppFactory, args []string, stdout, stderr io.Writer) int {
	rt := &runtime{opts: &RootOptions{}, factory: factory, stderr: stderr}
	defer rt.finish()

	cmd := newRootCommand(rt)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arloliu/simtrace"
	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string

	// flag values, applied over Config only when set on the command line
	database    string
	logLevel    string
	format      string
	compression string
	heartbeat   int

	Config *Config
	Logger *logrus.Logger
}

// NewRootCommand creates the root command for the simtrace CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "simtrace",
		Short: "Decode simulator pipeline traces",
		Long: `Decode the element values recorded in a simulator pipeline trace database.

Settings are read from an optional YAML config file, then SIMTRACE_* environment
variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	pf.StringVar(&opts.database, "db", "", "path to the trace database")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")
	pf.StringVar(&opts.format, "format", FormatText, "output format (json|text)")
	pf.StringVar(&opts.compression, "compression", "zlib", "codec of compressed records (zlib|zstd|s2|lz4|none)")
	pf.IntVar(&opts.heartbeat, "heartbeat", -1, "override the trace heartbeat (negative uses the trace value)")

	cmd.AddCommand(NewUnpackCommand(opts))
	cmd.AddCommand(NewTicksCommand(opts))
	cmd.AddCommand(NewSizesCommand(opts))
	cmd.AddCommand(NewLayoutCommand(opts))
	cmd.AddCommand(NewTreeCommand(opts))

	return cmd
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = o.database
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("compression") {
		cfg.Compression = o.compression
	}
	if flags.Changed("heartbeat") {
		cfg.Heartbeat = o.heartbeat
	}

	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid log level", err)
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(level)

	o.Config = cfg
	o.Logger = logger

	return nil
}

func (o *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Config.Format, Writer: cmd.OutOrStdout()}
}

// openEngine opens the configured trace database.
func (o *RootOptions) openEngine(ctx context.Context) (*simtrace.Engine, error) {
	if o.Config.Database == "" {
		return nil, NewExitError(ExitCommandError, "no trace database: set --db, SIMTRACE_DB or database in the config file")
	}

	comp, ok := format.ParseCompression(o.Config.Compression)
	if !ok {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown compression %q", o.Config.Compression))
	}

	engineOpts := []simtrace.EngineOption{
		simtrace.WithLogger(o.Logger),
		simtrace.WithCompression(comp),
	}
	if o.Config.Heartbeat >= 0 {
		engineOpts = append(engineOpts, simtrace.WithHeartbeat(o.Config.Heartbeat))
	}

	e, err := simtrace.Open(ctx, o.Config.Database, engineOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open trace", err)
	}

	o.Logger.WithField("db", o.Config.Database).Debug("trace opened")

	return e, nil
}

// queryError maps an engine error to an exit error. Lookup errors are caused
// by the command line, everything else by the trace contents.
func queryError(message string, err error) *ExitError {
	switch {
	case errors.Is(err, errs.ErrUnknownPath),
		errors.Is(err, errs.ErrUnknownCollectable),
		errors.Is(err, errs.ErrUnknownStruct),
		errors.Is(err, errs.ErrNotContainer):
		return WrapExitError(ExitCommandError, message, err)
	default:
		return WrapExitError(ExitFailure, message, err)
	}
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"github.com/gerunddev/mdslate/convert"
	"github.com/gerunddev/mdslate/internal/config"
	"github.com/gerunddev/mdslate/internal/logger"
)

// NewApp builds the mdslate command tree
func NewApp(version string) *cli.Command {
	return &cli.Command{
		Name:            "mdslate",
		Usage:           "convert between Markdown and rich-text editor documents",
		Version:         version,
		HideHelpCommand: true,
		Before:          Setup,
		After:           Teardown,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: commandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log conversion details at debug level"},
		},
		Commands: []*cli.Command{
			{
				Name:         "parse",
				Usage:        "Parses Markdown into rich-text JSON",
				ArgsUsage:    "FILE",
				OnUsageError: usageErrorHandler,
				Action:       Parse,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "mdast", Usage: "print the generic syntax tree instead of rich text"},
				},
			},
			{
				Name:         "render",
				Usage:        "Renders rich-text JSON as Markdown through the syntax tree",
				ArgsUsage:    "FILE",
				OnUsageError: usageErrorHandler,
				Action:       Render,
			},
			{
				Name:         "serialize",
				Usage:        "Writes rich-text JSON as Markdown directly",
				ArgsUsage:    "FILE",
				OnUsageError: usageErrorHandler,
				Action:       Serialize,
			},
			{
				Name:         "roundtrip",
				Usage:        "Converts Markdown to rich text and back, and shows what changed",
				ArgsUsage:    "FILE",
				OnUsageError: usageErrorHandler,
				Action:       Roundtrip,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "direct", Usage: "write Markdown with the direct serializer"},
					&cli.BoolFlag{Name: "plain", Usage: "print a plain unified diff"},
				},
			},
			{
				Name:         "browse",
				Usage:        "Browses the top-level blocks of a Markdown file",
				ArgsUsage:    "FILE",
				OnUsageError: usageErrorHandler,
				Action:       Browse,
			},
			{
				Name:         "config",
				Usage:        "Prints the active configuration (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       Config,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "init", Usage: "write the default configuration file"},
				},
			},
		},
	}
}

// Setup prepares the environment after the command line has been parsed
func Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := EnvFromContext(ctx)

	env.ConfigPath = cmd.String("config")
	if env.ConfigPath == "" {
		env.ConfigPath = config.ConfigPath()
	}
	if env.Cfg, err = config.LoadFrom(env.ConfigPath); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}

	level := env.Cfg.Level()
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	if env.Cfg.LogFile != "" {
		if env.Log, env.closeLog, err = logger.NewFileLogger(env.Cfg.LogFile, level); err != nil {
			return ctx, fmt.Errorf("unable to open log file: %w", err)
		}
	} else {
		env.Log = logger.NewWithLevel(os.Stderr, level)
		env.console = true
	}
	env.Log.ConfigLoaded(env.ConfigPath, env.Cfg.MaxDepth, env.Cfg.StrictFootnotes)

	opts := append(env.Cfg.EngineOptions(), convert.WithLogger(env.Log.Logger))
	env.Engine = convert.New(opts...)
	return ctx, nil
}

// Teardown releases what Setup acquired
func Teardown(ctx context.Context, cmd *cli.Command) (err error) {
	env := EnvFromContext(ctx)

	env.Log.Debug("program ended", "elapsed", env.Uptime(), "args", cmd.Args().Slice())

	if env.closeLog != nil {
		if er := env.closeLog(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close log file: %w", er))
		}
		env.closeLog = nil
	}
	return
}

// this is called before the environment is torn down, so the error from a
// subcommand still reaches the log
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if err == nil {
		return
	}
	env := EnvFromContext(ctx)
	env.Log.Error("program ended with error", "error", err)
	env.ErrLogged = env.console
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// error is reported by main
	return err
}

func commandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	EnvFromContext(ctx).Log.Warn("unknown command, nothing to do", "command", name)
}

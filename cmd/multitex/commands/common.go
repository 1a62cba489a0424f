package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/multitex/internal/config"
	ferrors "git.home.luguber.info/inful/multitex/internal/foundation/errors"
)

// Global carries process-wide dependencies into every command's Run method.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to ./multitex.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate incremental .tex variants from an annotated source and compile them"`
	Levels   LevelsCmd   `cmd:"" help:"Show the level to flag mapping and planned files without writing anything"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate variants whenever the source file changes"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	History  HistoryCmd  `cmd:"" help:"List recorded generation runs"`

	cfg *config.Config
}

// NewParser builds the kong parser for cli.
func NewParser(cli *CLI, version string, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("multitex"),
		kong.Description("Generate and compile a series of .tex files that build on top of each other, from a single source .tex"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	}
	return kong.New(cli, append(base, opts...)...)
}

// AfterApply runs after flag parsing; set up logging once from flags and env.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logging := config.LoggingConfig{Level: config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel))}
	slog.SetDefault(logging.NewLogger(os.Stderr, c.Verbose))
	return nil
}

// LoadConfig loads the configuration once and reconfigures logging from it.
func (c *CLI) LoadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadOrDefault(c.Config)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "configuration file not found").
				Fatal().
				WithContext("path", c.Config).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load configuration").
			Fatal().
			Build()
	}
	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, c.Verbose))
	c.cfg = cfg
	return cfg, nil
}

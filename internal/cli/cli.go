// Package cli implements the backpack command-line interface.
//
// The root command loads the grid configuration and the template palette;
// subcommands start the desktop or terminal frontend, validate a
// configuration, export a seeded layout or import templates into the
// palette. All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/backpack/internal/engine"
	"github.com/piwi3910/backpack/internal/model"
	"github.com/piwi3910/backpack/internal/project"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Version is reported by --version.
var Version = "dev"

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	palettePath string
	rows, cols  int
	verbose     bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "backpack",
		Short:        "Backpack is a spatial inventory grid",
		Long:         `Backpack places rectangular items on a fixed grid by dragging them from a template palette, with collision checks, rotation and undo.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", project.DefaultConfigPath(), "config file (.json, .toml or .yaml)")
	flags.StringVar(&c.palettePath, "palette", "", "palette file (default ~/.backpack/palette.json)")
	flags.IntVar(&c.rows, "rows", 0, "override the configured number of rows")
	flags.IntVar(&c.cols, "cols", 0, "override the configured number of columns")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.guiCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())

	return root
}

// =============================================================================
// Session
// =============================================================================

// session is the configuration and palette a command works with. An empty
// palettePath means the palette came from the config file and is not saved
// separately.
type session struct {
	config      model.AppConfig
	palette     model.Palette
	palettePath string
}

func (c *CLI) loadSession() (*session, error) {
	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.rows != 0 {
		cfg.Grid.Rows = c.rows
	}
	if c.cols != 0 {
		cfg.Grid.Cols = c.cols
	}
	if err := cfg.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	s := &session{config: cfg}
	if len(cfg.Palette) > 0 && c.palettePath == "" {
		s.palette = cfg.PaletteOrDefault()
		c.Logger.Debug("using config palette", "templates", len(s.palette.Templates))
		return s, nil
	}

	var p model.Palette
	path := c.palettePath
	if path == "" {
		p, path, err = project.LoadOrCreatePalette()
	} else {
		p, err = project.LoadPalette(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load palette: %w", err)
	}
	s.palette, s.palettePath = p, path
	c.Logger.Debug("loaded palette", "path", path, "templates", len(p.Templates))
	return s, nil
}

// buildGrid creates the grid and applies the seed placements. Failed seeds
// are logged and returned.
func (c *CLI) buildGrid(s *session) (*engine.Grid, []error, error) {
	grid, err := engine.NewGrid(s.config.Grid.Rows, s.config.Grid.Cols)
	if err != nil {
		return nil, nil, err
	}
	errs := engine.Populate(grid, s.palette, s.config.Seed)
	for _, err := range errs {
		c.Logger.Warn("seed skipped", "err", err)
	}
	c.Logger.Debug("grid ready", "rows", grid.Rows(), "cols", grid.Cols(), "items", grid.Len())
	return grid, errs, nil
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/backpack/internal/export"
	"github.com/piwi3910/backpack/internal/importer"
	"github.com/piwi3910/backpack/internal/interaction"
	"github.com/piwi3910/backpack/internal/model"
	"github.com/piwi3910/backpack/internal/project"
	"github.com/piwi3910/backpack/internal/tui"
	"github.com/piwi3910/backpack/internal/ui"
)

// =============================================================================
// gui
// =============================================================================

func (c *CLI) guiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession()
			if err != nil {
				return err
			}

			application := app.NewWithID("com.piwi3910.backpack")
			application.Settings().SetTheme(ui.ThemeFor(s.config.Theme))
			window := application.NewWindow("Backpack")

			appUI, err := ui.NewApp(application, window, ui.Options{
				Config:      s.config,
				ConfigPath:  c.configPath,
				Palette:     s.palette,
				PalettePath: s.palettePath,
				Logger:      c.Logger,
			})
			if err != nil {
				return err
			}
			appUI.SetupMenus()
			window.SetContent(appUI.Build())
			window.Resize(fyne.NewSize(900, 600))
			window.CenterOnScreen()
			window.ShowAndRun()
			return nil
		},
	}
}

// =============================================================================
// tui
// =============================================================================

func (c *CLI) tuiCommand() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the backpack in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession()
			if err != nil {
				return err
			}
			grid, _, err := c.buildGrid(s)
			if err != nil {
				return err
			}

			// The terminal belongs to the program while it runs, so the
			// controller logs to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := tea.LogToFile(logFile, "backpack")
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, c.Logger.GetLevel())

			m := tui.New(grid, s.config.Grid, s.palette, interaction.WithLogger(logger))
			return tui.Run(m)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write controller logs to this file")
	return cmd
}

// =============================================================================
// check
// =============================================================================

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and show the seeded grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession()
			if err != nil {
				return err
			}
			grid, errs, err := c.buildGrid(s)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			layout := grid.Layout()
			fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("Grid %dx%d", layout.Rows, layout.Cols)))
			fmt.Fprintln(out, renderOccupancy(layout))
			fmt.Fprintf(out, "%s items, %s of %s cells used (%.0f%%)\n",
				styleNumber.Render(fmt.Sprint(len(layout.Items))),
				styleNumber.Render(fmt.Sprint(layout.UsedCells())),
				styleNumber.Render(fmt.Sprint(layout.TotalCells())),
				layout.FillPercent())
			fmt.Fprintf(out, "%s templates in palette: %s\n",
				styleNumber.Render(fmt.Sprint(len(s.palette.Templates))),
				strings.Join(s.palette.Names(), ", "))

			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(out, styleError.Render("✗ "+e.Error()))
				}
				return fmt.Errorf("%d of %d seed placements failed", len(errs), len(s.config.Seed))
			}
			fmt.Fprintln(out, styleSuccess.Render("✓ configuration ok"))
			return nil
		},
	}
}

// renderOccupancy draws the grid as a table with the item name in every
// covered cell.
func renderOccupancy(layout model.Layout) string {
	names := make(map[string]string, len(layout.Items))
	for _, it := range layout.Items {
		names[it.ID] = it.Name
	}
	occ := layout.Occupancy()
	rows := make([][]string, len(occ))
	for r, line := range occ {
		rows[r] = make([]string, len(line))
		for col, id := range line {
			rows[r][col] = "·"
			if id != "" {
				rows[r][col] = names[id]
			}
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

// =============================================================================
// export
// =============================================================================

var exporters = map[string]func(string, model.Layout) error{
	"pdf":    export.ExportPDF,
	"labels": export.ExportLabels,
	"xlsx":   export.ExportXLSX,
}

func (c *CLI) exportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the seeded layout as a PDF sheet, PDF labels or a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("--output is required")
			}
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}
			write, ok := exporters[format]
			if !ok {
				return fmt.Errorf("unknown export format %q (want pdf, labels or xlsx)", format)
			}

			s, err := c.loadSession()
			if err != nil {
				return err
			}
			grid, _, err := c.buildGrid(s)
			if err != nil {
				return err
			}
			if err := write(output, grid.Layout()); err != nil {
				return err
			}
			c.Logger.Info("layout exported", "format", format, "path", output, "items", grid.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "pdf, labels or xlsx (default from the output extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

// =============================================================================
// import
// =============================================================================

func (c *CLI) importCommand() *cobra.Command {
	var cellSize float64

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add templates from a CSV, Excel or DXF file to the palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession()
			if err != nil {
				return err
			}
			if s.palettePath == "" {
				return errors.New("the config file defines the palette; edit it there instead")
			}

			path := args[0]
			var result importer.ImportResult
			switch ext := strings.ToLower(filepath.Ext(path)); ext {
			case ".csv", ".txt":
				result = importer.ImportCSV(path)
			case ".xlsx":
				result = importer.ImportExcel(path)
			case ".dxf":
				if cellSize <= 0 {
					cellSize = s.config.Grid.CellSize
				}
				result = importer.ImportDXF(path, cellSize)
			default:
				return fmt.Errorf("unsupported file type %q", ext)
			}

			out := cmd.OutOrStdout()
			for _, w := range result.Warnings {
				fmt.Fprintln(out, styleWarning.Render("! "+w))
			}
			for _, e := range result.Errors {
				fmt.Fprintln(out, styleError.Render("✗ "+e))
			}
			if len(result.Templates) == 0 {
				return fmt.Errorf("no templates imported from %s", path)
			}

			merged := project.MergePalette(model.NewPalette(s.palette.Templates...), result.Palette())
			added := len(merged.Templates) - len(s.palette.Templates)
			if err := project.SavePalette(s.palettePath, merged); err != nil {
				return fmt.Errorf("failed to save palette: %w", err)
			}
			fmt.Fprintf(out, "%s imported %s templates into %s\n",
				styleSuccess.Render("✓"), styleNumber.Render(fmt.Sprint(added)), s.palettePath)
			return nil
		},
	}
	cmd.Flags().Float64Var(&cellSize, "cell-size", 0, "DXF drawing units per grid cell (default: configured cell size)")
	return cmd
}

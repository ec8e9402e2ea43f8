package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/backpack/internal/engine"
	"github.com/piwi3910/backpack/internal/export"
	"github.com/piwi3910/backpack/internal/importer"
	"github.com/piwi3910/backpack/internal/interaction"
	"github.com/piwi3910/backpack/internal/model"
	"github.com/piwi3910/backpack/internal/project"
	"github.com/piwi3910/backpack/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app         fyne.App
	window      fyne.Window
	config      model.AppConfig
	configPath  string
	palettePath string
	logger      *log.Logger

	grid     *engine.Grid
	backpack *widgets.Backpack

	// UI references for dynamic updates
	status  *widget.Label
	undoBtn *ttwidget.Button
	redoBtn *ttwidget.Button
}

// Options configures NewApp. Empty paths disable saving.
type Options struct {
	Config      model.AppConfig
	ConfigPath  string
	Palette     model.Palette
	PalettePath string
	Logger      *log.Logger
}

// NewApp builds the grid from the configuration, applies the seed
// placements and wires the backpack widget.
func NewApp(application fyne.App, window fyne.Window, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	grid, err := engine.NewGrid(opts.Config.Grid.Rows, opts.Config.Grid.Cols)
	if err != nil {
		return nil, err
	}
	palette := opts.Palette
	if len(palette.Templates) == 0 {
		palette = opts.Config.PaletteOrDefault()
	}
	for _, err := range engine.Populate(grid, palette, opts.Config.Seed) {
		logger.Warn("seed skipped", "err", err)
	}

	a := &App{
		app:         application,
		window:      window,
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		palettePath: opts.PalettePath,
		logger:      logger,
		grid:        grid,
	}
	a.backpack = widgets.NewBackpack(grid, opts.Config.Grid, palette, interaction.WithLogger(logger))
	a.backpack.OnOutcome = a.onOutcome
	a.backpack.OnError = func(err error) {
		a.setStatus(fmt.Sprintf("Cannot rotate here: %v", err))
	}
	return a, nil
}

// Controller returns the gesture controller driving the grid.
func (a *App) Controller() *interaction.Controller { return a.backpack.Controller() }

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Backpack", func() {
			a.clearGrid()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Palette from CSV...", func() {
			a.importPalette(".csv", importer.ImportCSV)
		}),
		fyne.NewMenuItem("Import Palette from Excel...", func() {
			a.importPalette(".xlsx", importer.ImportExcel)
		}),
		fyne.NewMenuItem("Import Palette from DXF...", func() {
			a.importPalette(".dxf", func(path string) importer.ImportResult {
				return importer.ImportDXF(path, a.config.Grid.CellSize)
			})
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Layout PDF...", func() {
			a.exportLayout("backpack.pdf", export.ExportPDF)
		}),
		fyne.NewMenuItem("Export Item Labels...", func() {
			a.exportLayout("backpack-labels.pdf", export.ExportLabels)
		}),
		fyne.NewMenuItem("Export Spreadsheet...", func() {
			a.exportLayout("backpack.xlsx", export.ExportXLSX)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup / Restore...", func() {
			a.showImportExportDialog()
		}),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { a.undo() }),
		fyne.NewMenuItem("Redo", func() { a.redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Backpack", func() { a.clearGrid() }),
		fyne.NewMenuItem("Edit Palette...", func() { a.showPaletteDialog() }),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About Backpack",
		"Backpack: spatial inventory grid\n\n"+
			"Drag items from the palette into the grid,\n"+
			"tap an item to show its rotate control.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.undoBtn = newToolbarButton(theme.ContentUndoIcon(), "Undo", "Ctrl+Z", a.undo)
	a.redoBtn = newToolbarButton(theme.ContentRedoIcon(), "Redo", "Ctrl+Y", a.redo)
	clearBtn := newToolbarButton(theme.DeleteIcon(), "Clear backpack", "", a.clearGrid)
	paletteBtn := newToolbarButton(theme.ListIcon(), "Edit palette", "", a.showPaletteDialog)

	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Backpack", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		a.undoBtn, a.redoBtn, clearBtn, paletteBtn,
	)
	a.status = widget.NewLabel("")

	a.registerShortcuts()
	a.refresh()

	content := container.NewBorder(
		toolbar,
		a.status,
		nil, nil,
		container.NewScroll(container.NewPadded(a.backpack)),
	)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

func (a *App) registerShortcuts() {
	c := a.window.Canvas()
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.backpack.Cancel()
		}
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.redo() })
}

// ─── State ─────────────────────────────────────────────────

// summary describes the grid fill for the status bar.
func summary(l model.Layout) string {
	return fmt.Sprintf("%d items, %d of %d cells used (%.0f%%)",
		len(l.Items), l.UsedCells(), l.TotalCells(), l.FillPercent())
}

func (a *App) refresh() {
	a.backpack.Refresh()
	s := a.Controller().Status()
	if a.undoBtn != nil {
		setEnabled(a.undoBtn, s.CanUndo)
		setEnabled(a.redoBtn, s.CanRedo)
	}
	a.setStatus(summary(a.grid.Layout()))
}

// onOutcome updates the window after a gesture ends. Only committed
// outcomes change the history, so the undo buttons are left alone otherwise.
func (a *App) onOutcome(out interaction.Outcome) {
	if out.Committed() {
		a.refresh()
		return
	}
	a.setStatus(summary(a.grid.Layout()))
}

func (a *App) setStatus(text string) {
	if a.status != nil {
		a.status.SetText(text)
	}
}

func setEnabled(b *ttwidget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (a *App) showBusy(err error) bool {
	if errors.Is(err, interaction.ErrBusy) {
		a.setStatus("Finish the current drag first.")
		return true
	}
	return false
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) undo() {
	if _, err := a.Controller().Undo(); err != nil {
		if !a.showBusy(err) {
			dialog.ShowError(err, a.window)
		}
		return
	}
	a.refresh()
}

func (a *App) redo() {
	if _, err := a.Controller().Redo(); err != nil {
		if !a.showBusy(err) {
			dialog.ShowError(err, a.window)
		}
		return
	}
	a.refresh()
}

func (a *App) clearGrid() {
	if err := a.Controller().Clear(); err != nil {
		a.showBusy(err)
		return
	}
	a.refresh()
}

// setPalette replaces the palette offered next to the grid and persists it.
func (a *App) setPalette(p model.Palette) error {
	if err := a.Controller().SetPalette(p); err != nil {
		return err
	}
	a.backpack.Refresh()
	if a.palettePath == "" {
		return nil
	}
	if err := project.SavePalette(a.palettePath, p); err != nil {
		return fmt.Errorf("failed to save palette: %w", err)
	}
	return nil
}

func (a *App) exportLayout(defaultName string, write func(string, model.Layout) error) {
	if a.grid.Len() == 0 {
		dialog.ShowInformation("Nothing to export", "Place at least one item first.", a.window)
		return
	}
	layout := a.grid.Layout()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := write(path, layout); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("layout exported", "path", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Layout saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importPalette(ext string, load func(string) importer.ImportResult) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(load(reader.URI().Path()))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	d.Show()
}

// handleImportResult merges imported templates into the palette and reports
// problems. It returns the number of templates added.
func (a *App) handleImportResult(result importer.ImportResult) int {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(errors.New(errorMsg), a.window)
	}
	for _, w := range result.Warnings {
		a.logger.Warn("import", "warning", w)
	}
	if len(result.Templates) == 0 {
		return 0
	}

	current := model.NewPalette(a.Controller().Palette().Templates...)
	merged := project.MergePalette(current, result.Palette())
	added := len(merged.Templates) - len(current.Templates)
	if err := a.setPalette(merged); err != nil {
		dialog.ShowError(err, a.window)
		return 0
	}

	msg := fmt.Sprintf("Successfully imported %d templates.", added)
	if skipped := len(result.Templates) - added; skipped > 0 {
		msg += fmt.Sprintf("\n%d were already in the palette.", skipped)
	}
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
	return added
}

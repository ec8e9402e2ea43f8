package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/piwi3910/backpack/internal/project"
)

// showSettingsDialog displays the application settings editor. Grid changes
// apply on the next start; the theme applies at once.
func (a *App) showSettingsDialog() {
	cfg := a.config

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Rows", intEntry(&cfg.Grid.Rows)),
		widget.NewFormItem("Columns", intEntry(&cfg.Grid.Cols)),
		widget.NewFormItem("Cell Size (px)", floatEntry(&cfg.Grid.CellSize)),
		widget.NewFormItem("Cell Gap (px)", floatEntry(&cfg.Grid.Gap)),
		widget.NewFormItem("Drag Threshold (px)", floatEntry(&cfg.Grid.DragThreshold)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if err := a.applyConfig(cfg); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			dialog.ShowInformation("Settings Saved",
				"Settings have been saved. Grid changes take effect on the next start.", a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(420, 420))
	d.Show()
}

// applyConfig validates and stores cfg, switches the theme and saves the
// config file.
func (a *App) applyConfig(cfg model.AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	a.config = cfg
	if a.app != nil {
		a.app.Settings().SetTheme(ThemeFor(cfg.Theme))
	}
	if err := a.saveConfig(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// showImportExportDialog displays the backup and restore dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.Controller().Palette()); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and palette exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("backpack-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current settings and palette.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					if err := a.restoreBackup(backup); err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export the settings and the template palette to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Backup / Restore", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restoreBackup applies a backup's settings and, when it carries one, its
// palette.
func (a *App) restoreBackup(backup project.BackupData) error {
	if len(backup.Palette.Templates) > 0 {
		if err := a.setPalette(backup.Palette); err != nil {
			return err
		}
	}
	return a.applyConfig(backup.Config)
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	if a.configPath == "" {
		return nil
	}
	return project.SaveAppConfig(a.configPath, a.config)
}

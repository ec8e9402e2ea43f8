package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/piwi3910/backpack/internal/project"
)

var rotationOptions = []string{"0", "90", "180", "270"}

// ─── Palette Dialog ────────────────────────────────────────

func (a *App) showPaletteDialog() {
	list := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		list.RemoveAll()
		templates := a.Controller().Palette().Templates

		if len(templates) == 0 {
			list.Add(widget.NewLabel("No templates defined."))
			return
		}

		header := container.NewGridWithColumns(5,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Size (cells)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Rotation", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		list.Add(header)
		list.Add(widget.NewSeparator())

		for _, t := range templates {
			tmpl := t
			row := container.NewGridWithColumns(5,
				widget.NewLabel(tmpl.Name),
				widget.NewLabel(fmt.Sprintf("%d x %d", tmpl.Width, tmpl.Height)),
				widget.NewLabel(fmt.Sprintf("%d°", int(tmpl.Rotation))),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showTemplateDialog(&tmpl, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					if err := a.removeTemplate(tmpl.ID); err != nil {
						dialog.ShowError(err, a.window)
					}
					refreshList()
				}),
			)
			list.Add(row)
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Template", theme.ContentAddIcon(), func() {
		a.showTemplateDialog(nil, refreshList)
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importPaletteJSON(refreshList)
	})
	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportPaletteJSON()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)
	content := container.NewBorder(toolbar, nil, nil, nil, container.NewVScroll(list))

	d := dialog.NewCustom("Template Palette", "Close", content, a.window)
	d.Resize(fyne.NewSize(600, 450))
	d.Show()
}

// showTemplateDialog adds a template, or edits existing when it is non-nil.
func (a *App) showTemplateDialog(existing *model.Template, onDone func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Template name")
	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()
	rotationSelect := widget.NewSelect(rotationOptions, nil)

	title, confirm := "Add Template", "Add"
	if existing != nil {
		title, confirm = "Edit Template", "Save"
		nameEntry.SetText(existing.Name)
		widthEntry.SetText(strconv.Itoa(existing.Width))
		heightEntry.SetText(strconv.Itoa(existing.Height))
		rotationSelect.SetSelected(strconv.Itoa(int(existing.Rotation)))
	} else {
		nameEntry.SetText("New Item")
		widthEntry.SetText("1")
		heightEntry.SetText("1")
		rotationSelect.SetSelected("0")
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width (cells)", widthEntry),
			widget.NewFormItem("Height (cells)", heightEntry),
			widget.NewFormItem("Rotation", rotationSelect),
		},
		func(ok bool) {
			if !ok {
				return
			}
			t, err := templateFromForm(nameEntry.Text, widthEntry.Text, heightEntry.Text, rotationSelect.Selected)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if existing != nil {
				t.ID = existing.ID
			}
			if err := a.upsertTemplate(t); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

// templateFromForm parses the template dialog fields. The returned template
// has a fresh ID.
func templateFromForm(name, width, height, rotation string) (model.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, fmt.Errorf("name must not be empty")
	}
	w, errW := strconv.Atoi(strings.TrimSpace(width))
	h, errH := strconv.Atoi(strings.TrimSpace(height))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return model.Template{}, fmt.Errorf("width and height must be whole numbers > 0")
	}
	t := model.NewTemplate(name, w, h)
	if rotation != "" {
		deg, err := strconv.Atoi(rotation)
		if err != nil || deg%90 != 0 {
			return model.Template{}, fmt.Errorf("rotation must be a multiple of 90, got %q", rotation)
		}
		t.Rotation = model.Rotation(deg).Normalize()
	}
	return t, nil
}

// upsertTemplate replaces the template with the same ID or appends t.
func (a *App) upsertTemplate(t model.Template) error {
	p := model.NewPalette(a.Controller().Palette().Templates...)
	replaced := false
	for i := range p.Templates {
		if p.Templates[i].ID == t.ID {
			p.Templates[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		p.Add(t)
	}
	return a.setPalette(p)
}

func (a *App) removeTemplate(id string) error {
	p := model.NewPalette(a.Controller().Palette().Templates...)
	if !p.Remove(id) {
		return fmt.Errorf("template %q not found", id)
	}
	return a.setPalette(p)
}

func (a *App) importPaletteJSON(onDone func()) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := project.ImportPalette(reader.URI().Path(), model.NewPalette(a.Controller().Palette().Templates...))
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if err := a.setPalette(merged); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Palette now contains %d templates.", len(merged.Templates)), a.window)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (a *App) exportPaletteJSON() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.SavePalette(writer.URI().Path(), a.Controller().Palette()); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Palette exported to %s", writer.URI().Path()), a.window)
		}
	}, a.window)
	d.SetFileName("palette.json")
	d.Show()
}

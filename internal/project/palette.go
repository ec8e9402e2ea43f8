package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/backpack/internal/model"
)

// DefaultPalettePath returns the default file path for the palette file.
// This is located at ~/.backpack/palette.json.
func DefaultPalettePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".backpack", "palette.json"), nil
}

// SavePalette writes the palette to the specified JSON file.
// It creates parent directories if they do not exist.
func SavePalette(path string, p model.Palette) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPalette reads the palette from the specified JSON file.
// If the file does not exist, it returns the default palette and saves it.
func LoadPalette(path string) (model.Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			p := model.DefaultPalette()
			if saveErr := SavePalette(path, p); saveErr != nil {
				return p, saveErr
			}
			return p, nil
		}
		return model.Palette{}, err
	}
	var p model.Palette
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Palette{}, err
	}
	if p.Templates == nil {
		p.Templates = []model.Template{}
	}
	return p, nil
}

// LoadOrCreatePalette loads the palette from the default path.
// If the file does not exist, it creates one with the built-in templates.
func LoadOrCreatePalette() (model.Palette, string, error) {
	path, err := DefaultPalettePath()
	if err != nil {
		return model.DefaultPalette(), "", err
	}
	p, err := LoadPalette(path)
	return p, path, err
}

// MergePalette appends the templates of imported whose IDs are not yet in
// existing. Templates without an ID get a fresh one.
func MergePalette(existing, imported model.Palette) model.Palette {
	ids := make(map[string]bool, len(existing.Templates))
	for _, t := range existing.Templates {
		ids[t.ID] = true
	}
	for _, t := range imported.Templates {
		if t.ID == "" {
			t.ID = model.NewTemplate(t.Name, t.Width, t.Height).ID
		}
		if ids[t.ID] {
			continue
		}
		existing.Templates = append(existing.Templates, t)
		ids[t.ID] = true
	}
	return existing
}

// ImportPalette imports a palette from a user-specified JSON file, merging
// it with the existing palette. Duplicate IDs are skipped.
func ImportPalette(path string, existing model.Palette) (model.Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Palette
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}
	return MergePalette(existing, imported), nil
}

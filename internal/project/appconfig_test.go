package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/backpack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml", "config.yaml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := model.DefaultAppConfig()
			cfg.Grid.Rows = 6
			cfg.Grid.Cols = 8
			cfg.Grid.Gap = 4
			cfg.Theme = "dark"
			cfg.Seed = []model.SeedItem{{Template: "sword", Row: 1, Col: 2, Rotation: model.Rotation90}}

			if err := SaveAppConfig(path, cfg); err != nil {
				t.Fatalf("SaveAppConfig failed: %v", err)
			}

			loaded, err := LoadAppConfig(path)
			if err != nil {
				t.Fatalf("LoadAppConfig failed: %v", err)
			}

			if loaded.Grid != cfg.Grid {
				t.Errorf("expected grid %+v, got %+v", cfg.Grid, loaded.Grid)
			}
			if loaded.Theme != "dark" {
				t.Errorf("expected Theme=dark, got %s", loaded.Theme)
			}
			if len(loaded.Seed) != 1 || loaded.Seed[0] != cfg.Seed[0] {
				t.Errorf("expected seed %+v, got %+v", cfg.Seed, loaded.Seed)
			}
			if len(loaded.Palette) != len(cfg.Palette) {
				t.Errorf("expected %d palette entries, got %d", len(cfg.Palette), len(loaded.Palette))
			}
		})
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Grid != model.DefaultGridConfig() {
		t.Errorf("expected default grid, got %+v", cfg.Grid)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "theme = \"light\"\n\n[grid]\nrows = 3\ncols = 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Grid.Rows != 3 || cfg.Grid.Cols != 3 {
		t.Errorf("expected 3x3 grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Grid.CellSize != 50 {
		t.Errorf("expected default cell size 50, got %g", cfg.Grid.CellSize)
	}
	if cfg.Seed == nil {
		t.Error("Seed should never be nil")
	}
	if len(cfg.PaletteOrDefault().Templates) == 0 {
		t.Error("expected default palette fallback")
	}
}

func TestLoadAppConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  rows: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadAppConfig(path)
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}

func TestLoadAppConfigBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestUnsupportedConfigFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := SaveAppConfig(path, model.DefaultAppConfig()); err == nil {
		t.Error("expected error saving .ini")
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error loading .ini")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if filepath.Base(p) != "config.json" {
		t.Errorf("expected config.json, got %s", p)
	}
	if filepath.Base(filepath.Dir(p)) != ".backpack" {
		t.Errorf("expected .backpack directory, got %s", filepath.Dir(p))
	}
}

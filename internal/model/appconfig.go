package model

import "fmt"

// GridConfig holds the fixed grid dimensions and cell geometry.
type GridConfig struct {
	Rows          int     `json:"rows" toml:"rows" yaml:"rows"`
	Cols          int     `json:"cols" toml:"cols" yaml:"cols"`
	CellSize      float64 `json:"cell_size" toml:"cell_size" yaml:"cell_size"`                // pixels
	Gap           float64 `json:"gap" toml:"gap" yaml:"gap"`                                  // pixels between cells
	DragThreshold float64 `json:"drag_threshold" toml:"drag_threshold" yaml:"drag_threshold"` // pixels before a press becomes a drag
}

// DefaultGridConfig returns the standard 4 x 5 backpack.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Rows:          4,
		Cols:          5,
		CellSize:      50,
		Gap:           2,
		DragThreshold: 5,
	}
}

// Validate checks that the grid can be built.
func (g GridConfig) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("grid must have positive rows and columns, got %dx%d", g.Rows, g.Cols)
	}
	if g.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %g", g.CellSize)
	}
	if g.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %g", g.Gap)
	}
	if g.DragThreshold < 0 {
		return fmt.Errorf("drag threshold must not be negative, got %g", g.DragThreshold)
	}
	return nil
}

// SeedItem is a placement applied when the grid is first built.
type SeedItem struct {
	Template string   `json:"template" toml:"template" yaml:"template"` // Template ID or name
	Row      int      `json:"row" toml:"row" yaml:"row"`
	Col      int      `json:"col" toml:"col" yaml:"col"`
	Rotation Rotation `json:"rotation,omitempty" toml:"rotation" yaml:"rotation,omitempty"`
}

// AppConfig holds application-wide preferences.
type AppConfig struct {
	Grid    GridConfig `json:"grid" toml:"grid" yaml:"grid"`
	Palette []Template `json:"palette,omitempty" toml:"palette" yaml:"palette,omitempty"`
	Seed    []SeedItem `json:"seed,omitempty" toml:"seed" yaml:"seed,omitempty"`
	Theme   string     `json:"theme" toml:"theme" yaml:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Grid:    DefaultGridConfig(),
		Palette: DefaultPalette().Templates,
		Seed:    []SeedItem{},
		Theme:   "system",
	}
}

// PaletteOrDefault returns the configured palette, falling back to the
// built-in one when none is configured.
func (c AppConfig) PaletteOrDefault() Palette {
	if len(c.Palette) == 0 {
		return DefaultPalette()
	}
	return NewPalette(c.Palette...)
}

// Validate checks the grid and palette entries.
func (c AppConfig) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Palette))
	for _, t := range c.Palette {
		if t.ID == "" {
			return fmt.Errorf("palette entry %q has no id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate palette id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Width <= 0 || t.Height <= 0 {
			return fmt.Errorf("palette entry %q must have a positive size, got %dx%d", t.ID, t.Width, t.Height)
		}
	}
	return nil
}

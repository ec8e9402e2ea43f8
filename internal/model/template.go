package model

// Template is an unlimited-supply palette entry. Templates are never placed
// themselves; NewItemFromTemplate produces the working copy.
type Template struct {
	ID       string   `json:"id" toml:"id" yaml:"id"`
	Name     string   `json:"name" toml:"name" yaml:"name"`
	Width    int      `json:"width" toml:"width" yaml:"width"`
	Height   int      `json:"height" toml:"height" yaml:"height"`
	Rotation Rotation `json:"rotation,omitempty" toml:"rotation" yaml:"rotation,omitempty"`
}

// NewTemplate creates a template with a generated ID.
func NewTemplate(name string, w, h int) Template {
	return Template{
		ID:     newID(),
		Name:   name,
		Width:  w,
		Height: h,
	}
}

// NewItemFromTemplate creates a fresh placed-origin item shaped like t.
// Every call yields a distinct identity, even for identical templates.
func NewItemFromTemplate(t Template) *Item {
	return &Item{
		ID:         newID(),
		Name:       t.Name,
		TemplateID: t.ID,
		Width:      t.Width,
		Height:     t.Height,
		Rotation:   t.Rotation.Normalize(),
		Origin:     OriginPlaced,
	}
}

// Palette is the ordered set of templates offered to the user.
type Palette struct {
	Templates []Template `json:"templates"`
}

// NewPalette creates a palette from the given templates.
func NewPalette(templates ...Template) Palette {
	p := Palette{Templates: []Template{}}
	p.Templates = append(p.Templates, templates...)
	return p
}

// Add appends a template to the palette.
func (p *Palette) Add(t Template) {
	p.Templates = append(p.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (p *Palette) Remove(id string) bool {
	for i, t := range p.Templates {
		if t.ID == id {
			p.Templates = append(p.Templates[:i], p.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the template with the given ID.
func (p Palette) Lookup(id string) (Template, bool) {
	for _, t := range p.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// FindByName returns the first template with the given name.
func (p Palette) FindByName(name string) (Template, bool) {
	for _, t := range p.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// Names returns the template names for UI lists.
func (p Palette) Names() []string {
	names := make([]string, len(p.Templates))
	for i, t := range p.Templates {
		names[i] = t.Name
	}
	return names
}

// DefaultPalette returns the built-in item set.
func DefaultPalette() Palette {
	return NewPalette(
		Template{ID: "sword", Name: "Sword", Width: 1, Height: 3},
		Template{ID: "shield", Name: "Shield", Width: 2, Height: 2},
		Template{ID: "potion", Name: "Potion", Width: 1, Height: 1},
		Template{ID: "bow", Name: "Bow", Width: 2, Height: 1},
		Template{ID: "armor", Name: "Armor", Width: 2, Height: 3},
	)
}

package model

import (
	"testing"
)

func TestNewItemFromTemplate(t *testing.T) {
	tmpl := Template{ID: "shield", Name: "Shield", Width: 2, Height: 3, Rotation: Rotation90}

	a := NewItemFromTemplate(tmpl)
	b := NewItemFromTemplate(tmpl)

	if a.ID == "" || b.ID == "" {
		t.Fatal("expected generated IDs")
	}
	if a.ID == b.ID {
		t.Errorf("clones must have distinct identities, both got %q", a.ID)
	}
	if a.Origin != OriginPlaced {
		t.Errorf("expected placed origin, got %s", a.Origin)
	}
	if a.TemplateID != "shield" {
		t.Errorf("expected template id 'shield', got %q", a.TemplateID)
	}
	if a.Width != 2 || a.Height != 3 {
		t.Errorf("expected 2x3, got %dx%d", a.Width, a.Height)
	}
	if a.Rotation != Rotation90 {
		t.Errorf("expected rotation 90, got %d", a.Rotation)
	}
	if a.Name != "Shield" {
		t.Errorf("expected name 'Shield', got %q", a.Name)
	}
}

func TestPaletteLookupAndRemove(t *testing.T) {
	p := NewPalette(
		Template{ID: "a", Name: "Alpha", Width: 1, Height: 1},
		Template{ID: "b", Name: "Beta", Width: 2, Height: 1},
	)

	if _, ok := p.Lookup("b"); !ok {
		t.Error("expected to find template b")
	}
	if _, ok := p.Lookup("zzz"); ok {
		t.Error("did not expect to find unknown template")
	}
	if tmpl, ok := p.FindByName("Alpha"); !ok || tmpl.ID != "a" {
		t.Errorf("FindByName returned %+v, %v", tmpl, ok)
	}

	if !p.Remove("a") {
		t.Error("expected Remove to report success")
	}
	if p.Remove("a") {
		t.Error("expected second Remove to report failure")
	}
	if len(p.Templates) != 1 {
		t.Errorf("expected 1 template left, got %d", len(p.Templates))
	}

	p.Add(NewTemplate("Gamma", 1, 2))
	names := p.Names()
	if len(names) != 2 || names[1] != "Gamma" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestDefaultPaletteIsValid(t *testing.T) {
	p := DefaultPalette()
	if len(p.Templates) == 0 {
		t.Fatal("default palette is empty")
	}
	seen := map[string]bool{}
	for _, tmpl := range p.Templates {
		if seen[tmpl.ID] {
			t.Errorf("duplicate id %q", tmpl.ID)
		}
		seen[tmpl.ID] = true
		if tmpl.Width <= 0 || tmpl.Height <= 0 {
			t.Errorf("template %q has invalid size %dx%d", tmpl.ID, tmpl.Width, tmpl.Height)
		}
	}
}

package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/backpack/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.xlsx")
	if err := ExportXLSX(path, buildTestLayout()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(itemsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][1] != "Name" {
		t.Errorf("expected header Name, got %q", rows[0][1])
	}
	if rows[2][1] != "Shield" || rows[2][3] != "2" {
		t.Errorf("unexpected shield row %v", rows[2])
	}

	name, err := f.GetCellValue(gridSheet, "C2") // row 1, col 2
	if err != nil {
		t.Fatal(err)
	}
	if name != "Shield" {
		t.Errorf("expected Shield at C2, got %q", name)
	}
	free, _ := f.GetCellValue(gridSheet, "E1")
	if free != "" {
		t.Errorf("expected free cell E1, got %q", free)
	}
	bow, _ := f.GetCellValue(gridSheet, "E4")
	if bow != "Bow" {
		t.Errorf("expected Bow at E4, got %q", bow)
	}
}

func TestExportXLSX_NoGrid(t *testing.T) {
	if err := ExportXLSX(filepath.Join(t.TempDir(), "x.xlsx"), model.Layout{}); err == nil {
		t.Fatal("expected error for layout without grid")
	}
}

package fabrica

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/fabrica/style"
)

func TestAddWorksheet(t *testing.T) {
	wb := New()

	ws, err := wb.AddWorksheet("Data")
	if err != nil {
		t.Fatalf("AddWorksheet: %v", err)
	}
	if ws.Name() != "Data" {
		t.Errorf("Name() = %q, want Data", ws.Name())
	}

	tests := []struct {
		name    string
		wantErr error
	}{
		{"", ErrSheetName},
		{strings.Repeat("x", 32), ErrSheetName},
		{"bad[name]", ErrSheetName},
		{"a/b", ErrSheetName},
		{"Data", ErrSheetExists},
		{"DATA", ErrSheetExists}, // uniqueness ignores case
		{"data", ErrSheetExists},
		{strings.Repeat("x", 31), nil},
		{"Second", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wb.AddWorksheet(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddWorksheet(%q) = %v, want %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestWorksheetLookup(t *testing.T) {
	wb := New()
	Must(wb.AddWorksheet("Report"))

	if ws := wb.Worksheet("report"); ws == nil || ws.Name() != "Report" {
		t.Errorf("case-insensitive lookup failed: %v", ws)
	}
	if ws := wb.Worksheet("missing"); ws != nil {
		t.Errorf("Worksheet(missing) = %v, want nil", ws)
	}
}

func TestWorksheetsOrder(t *testing.T) {
	wb := New()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		Must(wb.AddWorksheet(name))
	}
	got := wb.Worksheets()
	want := []string{"Zeta", "Alpha", "Mid"}
	if len(got) != len(want) {
		t.Fatalf("got %d sheets, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Name() != w {
			t.Errorf("sheets[%d] = %s, want %s (insertion order)", i, got[i].Name(), w)
		}
	}
}

func TestSaveEmptyWorkbook(t *testing.T) {
	wb := New()
	var buf bytes.Buffer
	if err := wb.Save(&buf); !errors.Is(err, ErrNoWorksheets) {
		t.Errorf("Save of empty workbook = %v, want ErrNoWorksheets", err)
	}
	if buf.Len() != 0 {
		t.Errorf("failed save wrote %d bytes, want 0", buf.Len())
	}
}

func TestSaveProducesZip(t *testing.T) {
	wb := New()
	ws := Must(wb.AddWorksheet("Sheet1"))
	if err := ws.SetCell("A1", "hello"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := wb.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if buf.Len() < 4 || buf.Bytes()[0] != 'P' || buf.Bytes()[1] != 'K' {
		t.Error("output does not start with a zip signature")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	wb := New()
	ws := Must(wb.AddWorksheet("Sheet1"))
	if err := ws.SetCell("A1", 1); err != nil {
		t.Fatal(err)
	}

	doc, err := wb.snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	before := len(doc.Sheets[0].Cells)

	// Mutations after snapshot must not show up in the copy.
	if err := ws.SetCell("B9", 2); err != nil {
		t.Fatal(err)
	}
	Must(wb.AddWorksheet("Late"))

	if len(doc.Sheets) != 1 {
		t.Errorf("snapshot grew a sheet: %d", len(doc.Sheets))
	}
	if len(doc.Sheets[0].Cells) != before {
		t.Errorf("snapshot grew a cell: %d != %d", len(doc.Sheets[0].Cells), before)
	}
}

func TestMetadata(t *testing.T) {
	wb := NewWithOptions(Options{Application: "report-gen", Company: "Acme"})
	Must(wb.AddWorksheet("Sheet1"))
	created := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	wb.SetMetadata(Metadata{
		Title:   "Q1",
		Creator: "jdoe",
		Created: created,
	})

	doc, err := wb.snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Meta.Title != "Q1" || doc.Meta.Creator != "jdoe" {
		t.Errorf("metadata lost: %+v", doc.Meta)
	}
	if doc.Meta.Application != "report-gen" || doc.Meta.Company != "Acme" {
		t.Errorf("options not carried into metadata: %+v", doc.Meta)
	}
	if !doc.Meta.Created.Equal(created) {
		t.Errorf("created = %v, want %v", doc.Meta.Created, created)
	}
}

func TestDefaultApplication(t *testing.T) {
	wb := NewWithOptions(Options{Company: "Acme"})
	if wb.options.Application != "fabrica" {
		t.Errorf("Application = %q, want fabrica default", wb.options.Application)
	}
}

func TestWorkbookProtection(t *testing.T) {
	wb := New()
	Must(wb.AddWorksheet("Sheet1"))

	wb.SetPassword("hunter2")
	wb.Protect(WorkbookProtection{LockStructure: true})

	doc, err := wb.snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Protection == nil || !doc.Protection.LockStructure {
		t.Fatalf("protection = %+v, want structure lock", doc.Protection)
	}
	if doc.Protection.PasswordHash == "" || doc.Protection.PasswordHash == "hunter2" {
		t.Errorf("password digest = %q", doc.Protection.PasswordHash)
	}

	wb.Unprotect()
	doc, err = wb.snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Protection != nil {
		t.Error("protection survives Unprotect")
	}
}

func TestStyleRefcountAcrossOverwrite(t *testing.T) {
	wb := New()
	ws := Must(wb.AddWorksheet("Sheet1"))

	s := style.New()
	s.Fill.Pattern = "solid"
	s.Fill.Color = "FFFFCC00"
	h, err := wb.AddStyle(&s)
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.SetCellStyle("A1", h); err != nil {
		t.Fatal(err)
	}

	// Release the caller's reference: the cell still holds one.
	if err := wb.RemoveStyle(h); err != nil {
		t.Fatal(err)
	}
	if _, ok := wb.Styles().Style(h); !ok {
		t.Fatal("style evicted while a cell still references it")
	}

	// Clearing the last referencing cell drops the entry.
	if err := ws.ClearCell("A1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := wb.Styles().Style(h); ok {
		t.Error("style survives with zero references")
	}
}

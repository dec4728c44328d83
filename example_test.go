package fabrica_test

import (
	"fmt"
	"log"
	"time"

	"github.com/tsawler/fabrica"
	"github.com/tsawler/fabrica/ref"
	"github.com/tsawler/fabrica/style"
)

func Example_basicWorkbook() {
	wb := fabrica.New()
	sheet, err := wb.AddWorksheet("Report")
	if err != nil {
		log.Fatal(err)
	}

	sheet.SetCell("A1", "Item")
	sheet.SetCell("B1", "Total")
	sheet.SetCell("A2", "Widgets")
	sheet.SetCell("B2", 1250.75)
	sheet.SetCell("C2", time.Now())
	sheet.SetFormula("B3", "SUM(B2:B2)")

	if err := wb.SaveFile("report.xlsx"); err != nil {
		log.Fatal(err)
	}
}

func Example_styledCells() {
	wb := fabrica.New()
	sheet := fabrica.Must(wb.AddWorksheet("Summary"))

	header := style.New()
	header.Font.Bold = true
	header.Fill.Pattern = "solid"
	header.Fill.Color = "FFDDEEFF"
	h, err := wb.AddStyle(&header)
	if err != nil {
		log.Fatal(err)
	}

	sheet.SetCell("A1", "Region")
	sheet.SetCellStyle("A1", h)
	sheet.MergeRange("A1:C1")
	sheet.SetColWidth(0, 22)

	_ = wb
}

func Example_protection() {
	wb := fabrica.New()
	sheet := fabrica.Must(wb.AddWorksheet("Locked"))

	sheet.SetCell("A1", "read only")
	sheet.SetCellLocked("B1", false, false) // leave B1 editable
	sheet.SetPassword("secret")
	sheet.Protect(fabrica.SheetProtection{
		FormatCells: true,
		InsertRows:  true,
		DeleteRows:  true,
	})

	_ = wb
}

func Example_cellReferences() {
	addr, err := ref.Parse("AA10")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(addr.Col, addr.Row)

	formatted, err := ref.Format(addr.Col, addr.Row)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(formatted)
	// Output:
	// 26 9
	// AA10
}

// Package fabrica builds spreadsheet workbooks in memory and saves
// them as .xlsx packages.
//
// Basic usage:
//
//	wb := fabrica.New()
//	sheet, err := wb.AddWorksheet("Report")
//	if err != nil {
//	    // handle error
//	}
//	sheet.SetCell("A1", "Revenue")
//	sheet.SetCell("B1", 1250.75)
//	if err := wb.SaveFile("report.xlsx"); err != nil {
//	    // handle error
//	}
//
// Styling goes through the workbook's registry, which dedupes equal
// definitions:
//
//	bold := style.New()
//	bold.Font.Bold = true
//	h, err := wb.AddStyle(&bold)
//	if err != nil {
//	    // handle error
//	}
//	sheet.SetCellStyle("A1", h)
//
// Cell references use A1 notation; the ref package exposes the
// parsing and formatting primitives for callers that work with
// numeric coordinates.
package fabrica

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	sheet := fabrica.Must(wb.AddWorksheet("Data"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

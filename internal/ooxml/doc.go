// Package ooxml serializes an in-memory workbook snapshot into the
// zipped SpreadsheetML package format. It is internal: callers build
// workbooks through the public fabrica surface, which hands a
// Document snapshot to Write.
package ooxml

import (
	"time"

	"github.com/tsawler/fabrica/style"
)

// CellType is the resolved kind of a snapshot cell.
type CellType int

const (
	// TypeEmpty marks a cell holding no value.
	TypeEmpty CellType = iota
	// TypeString marks a text value, emitted through the shared-string table.
	TypeString
	// TypeNumber marks a numeric value.
	TypeNumber
	// TypeBool marks a boolean value.
	TypeBool
	// TypeDate marks a timestamp, emitted as an Excel serial number.
	TypeDate
	// TypeFormula marks a formula expression.
	TypeFormula
)

// Document is an immutable snapshot of a workbook, taken at save time.
type Document struct {
	Meta       Metadata
	Styles     []StyleEntry // registry insertion order; entry 0 is the default
	Sheets     []Sheet
	Protection *WorkbookProtection
}

// Metadata holds the document properties for the docProps parts.
// Empty fields are omitted from the package.
type Metadata struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       string
	Description    string
	Category       string
	LastModifiedBy string
	Application    string
	Company        string
	Created        time.Time
	Modified       time.Time
}

// StyleEntry pairs an interned style with its registry identifier.
// The slice position of an entry is its emitted numeric style index.
type StyleEntry struct {
	ID    string
	Style style.Style
}

// Sheet is the snapshot of one worksheet.
type Sheet struct {
	Name       string
	Cells      []Cell // sorted row-major
	Merges     []string
	AutoFilter string
	Cols       []ColProp // sorted by index
	Rows       []RowProp // sorted by index
	Protection *SheetProtection
}

// Cell is the snapshot of one cell. StyleID is empty for unstyled
// cells; a non-empty StyleID must name a live registry entry.
type Cell struct {
	Ref     string
	Row     int // zero-based
	Col     int // zero-based
	Type    CellType
	Value   any
	StyleID string
}

// ColProp carries explicit sizing for one zero-based column index.
type ColProp struct {
	Index  int
	Width  float64
	Hidden bool
}

// RowProp carries explicit sizing for one zero-based row index.
type RowProp struct {
	Index  int
	Height float64
	Hidden bool
}

// SheetProtection mirrors the worksheet protection settings. Each
// operation flag disallows that operation while protection is active.
type SheetProtection struct {
	PasswordHash string

	SelectLockedCells   bool
	SelectUnlockedCells bool
	FormatCells         bool
	FormatColumns       bool
	FormatRows          bool
	InsertColumns       bool
	InsertRows          bool
	DeleteColumns       bool
	DeleteRows          bool
	Sort                bool
	AutoFilter          bool
}

// WorkbookProtection locks the workbook structure or window layout.
type WorkbookProtection struct {
	LockStructure bool
	LockWindows   bool
	PasswordHash  string
}

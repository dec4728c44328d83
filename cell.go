package fabrica

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tsawler/fabrica/ref"
	"github.com/tsawler/fabrica/style"
)

// CellType represents the resolved type of data in a cell.
type CellType int

const (
	// CellTypeUnset marks a cell whose type has not been resolved yet.
	CellTypeUnset CellType = iota
	// CellTypeString indicates a text value.
	CellTypeString
	// CellTypeNumber indicates a numeric value.
	CellTypeNumber
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeDate indicates a timestamp value.
	CellTypeDate
	// CellTypeFormula indicates a formula.
	CellTypeFormula
	// CellTypeEmpty indicates a cell that holds no value.
	CellTypeEmpty
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeUnset:
		return "unset"
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeDate:
		return "date"
	case CellTypeFormula:
		return "formula"
	case CellTypeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Cell is one value in a worksheet. A cell is created when a value is
// set at an address, replaced wholesale on overwrite, and destroyed
// when the address is cleared or the worksheet goes away. Style is a
// non-owning reference into the workbook's style registry.
type Cell struct {
	Address ref.Address
	Value   any
	Type    CellType
	Style   style.Handle
}

// resolveType classifies the cell's value when no explicit type was
// given. Formula and empty cells are never reclassified. Unrecognized
// value kinds fall back to text rather than failing, so callers
// passing arbitrary values get a string rendering, not an error.
func (c *Cell) resolveType() {
	if c.Type != CellTypeUnset {
		return
	}
	switch c.Value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, decimal.Decimal:
		c.Type = CellTypeNumber
	case bool:
		c.Type = CellTypeBoolean
	case time.Time:
		c.Type = CellTypeDate
	case nil:
		c.Type = CellTypeEmpty
	default:
		c.Type = CellTypeString
	}
}

// Less orders cells row-major: by row first, then by column within a
// row. The serializer iterates cells in this order so output is
// deterministic.
func (c *Cell) Less(other *Cell) bool {
	if c.Address.Row != other.Address.Row {
		return c.Address.Row < other.Address.Row
	}
	return c.Address.Col < other.Address.Col
}

// sortCells sorts a cell slice row-major in place.
func sortCells(cells []*Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
}

// Package style defines the formatting values applied to workbook
// cells and the registry that deduplicates them.
//
// A Style is a plain comparable value: two styles are equal exactly
// when all of their sub-records are equal, and the registry relies on
// that to store each distinct definition once.
package style

// NumberFormat selects how a numeric cell value is rendered. ID refers
// to one of the format's built-in codes (0 is general, 14 a date, 49
// text); Code carries a custom format string and takes precedence over
// ID when set.
type NumberFormat struct {
	ID   int
	Code string
}

// Font describes the typeface applied to a cell.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // ARGB hex, e.g. "FFFF0000"
}

// Fill describes the cell background.
type Fill struct {
	Pattern string // e.g. "solid", "gray125"
	Color   string // ARGB foreground color
}

// Line describes one edge of a cell border.
type Line struct {
	Style string // e.g. "thin", "medium", "dashed"
	Color string
}

// Border describes the four cell edges independently.
type Border struct {
	Left   Line
	Right  Line
	Top    Line
	Bottom Line
}

// Alignment positions content within the cell.
type Alignment struct {
	Horizontal string // "left", "center", "right"
	Vertical   string // "top", "center", "bottom"
	WrapText   bool
}

// Protection carries the per-cell flags enforced while the owning
// worksheet is protected.
type Protection struct {
	Locked bool
	Hidden bool
}

// Style is an immutable formatting value composed of independently
// settable sub-records. Cells hold non-owning references to interned
// styles; to change a cell's formatting, copy the style, modify the
// copy and intern it again.
type Style struct {
	NumberFormat NumberFormat
	Font         Font
	Fill         Fill
	Border       Border
	Alignment    Alignment
	Protection   Protection
}

// New returns the default style: no formatting, cells locked under
// sheet protection, which is the format's default.
func New() Style {
	return Style{Protection: Protection{Locked: true}}
}

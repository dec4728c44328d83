// Package ref converts between zero-based spreadsheet coordinates and
// A1-style cell references and ranges.
//
// Column letters use bijective base-26: the letters A through Z stand
// for the digit values 1 through 26 with no zero digit, most
// significant letter first. A naive positional base-26 conversion is
// wrong for multi-letter columns ("AA" is 26, not 0).
package ref

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Worksheet bounds for the XLSX format.
const (
	// MaxColumns is the number of addressable columns, A through XFD.
	MaxColumns = 16384
	// MaxRows is the number of addressable rows, 1 through 1048576.
	MaxRows = 1048576
)

// Reference errors.
var (
	// ErrInvalidRef indicates malformed A1-style reference text.
	ErrInvalidRef = errors.New("ref: invalid cell reference")
	// ErrOutOfRange indicates a column or row outside the worksheet bounds.
	ErrOutOfRange = errors.New("ref: cell reference out of range")
)

// Address identifies one cell by zero-based column and row.
type Address struct {
	Col int
	Row int
}

// New returns the Address for the given zero-based column and row.
// It fails with ErrOutOfRange when either index is outside the
// supported bounds.
func New(col, row int) (Address, error) {
	if col < 0 || col >= MaxColumns || row < 0 || row >= MaxRows {
		return Address{}, fmt.Errorf("%w: col %d, row %d", ErrOutOfRange, col, row)
	}
	return Address{Col: col, Row: row}, nil
}

// Format returns the A1-style reference for the given zero-based
// column and row, validating bounds first.
func Format(col, row int) (string, error) {
	a, err := New(col, row)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

// String returns the A1-style reference for an address that is already
// within bounds.
func (a Address) String() string {
	letters, err := ColumnName(a.Col)
	if err != nil {
		return ""
	}
	return letters + strconv.Itoa(a.Row+1)
}

// Parse parses an A1-style reference like "B12" into an Address.
// Parsing is case-insensitive. Malformed input fails with
// ErrInvalidRef; well-formed references outside the worksheet bounds
// fail with ErrOutOfRange.
func Parse(s string) (Address, error) {
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i > 3 || i == len(s) || len(s)-i > 7 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
		}
	}

	col, err := ColumnNumber(s[:i])
	if err != nil {
		return Address{}, err
	}

	// Row digits are validated above and limited to 7 characters, so
	// Atoi cannot fail or overflow.
	row, _ := strconv.Atoi(s[i:])
	if row < 1 || row > MaxRows {
		return Address{}, fmt.Errorf("%w: row %s", ErrOutOfRange, s[i:])
	}

	return Address{Col: col, Row: row - 1}, nil
}

// ColumnNumber converts column letters to a zero-based column index:
// "A" is 0, "Z" is 25, "AA" is 26, "XFD" is 16383. Letters beyond
// "XFD" fail with ErrOutOfRange.
func ColumnNumber(letters string) (int, error) {
	if letters == "" || len(letters) > 3 {
		return 0, fmt.Errorf("%w: column %q", ErrInvalidRef, letters)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("%w: column %q", ErrInvalidRef, letters)
		}
		n = n*26 + int(c-'A') + 1
	}
	if n > MaxColumns {
		return 0, fmt.Errorf("%w: column %q", ErrOutOfRange, letters)
	}
	return n - 1, nil
}

// ColumnName converts a zero-based column index to column letters:
// 0 is "A", 25 is "Z", 26 is "AA", 16383 is "XFD".
func ColumnName(col int) (string, error) {
	if col < 0 || col >= MaxColumns {
		return "", fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	var buf [3]byte
	i := len(buf)
	for n := col + 1; n > 0; n /= 26 {
		n--
		i--
		buf[i] = byte('A' + n%26)
	}
	return string(buf[i:]), nil
}

// Range spans the rectangle between two corner addresses. The corners
// may be given in any order; consumers normalize before iterating.
type Range struct {
	Start Address
	End   Address
}

// ParseRange parses a range reference like "A1:B3". Exactly two
// addresses separated by a colon are required.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: range %q", ErrInvalidRef, s)
	}
	start, err := Parse(parts[0])
	if err != nil {
		return Range{}, err
	}
	end, err := Parse(parts[1])
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// Normalize returns the range with Start at the top-left corner and
// End at the bottom-right corner.
func (r Range) Normalize() Range {
	n := r
	if n.Start.Col > n.End.Col {
		n.Start.Col, n.End.Col = n.End.Col, n.Start.Col
	}
	if n.Start.Row > n.End.Row {
		n.Start.Row, n.End.Row = n.End.Row, n.Start.Row
	}
	return n
}

// String returns the normalized "A1:B3" form of the range.
func (r Range) String() string {
	n := r.Normalize()
	return n.Start.String() + ":" + n.End.String()
}

// Contains reports whether the address lies within the range.
func (r Range) Contains(a Address) bool {
	n := r.Normalize()
	return a.Col >= n.Start.Col && a.Col <= n.End.Col &&
		a.Row >= n.Start.Row && a.Row <= n.End.Row
}

// Overlaps reports whether the two ranges share at least one address.
func (r Range) Overlaps(other Range) bool {
	a, b := r.Normalize(), other.Normalize()
	return a.Start.Col <= b.End.Col && b.Start.Col <= a.End.Col &&
		a.Start.Row <= b.End.Row && b.Start.Row <= a.End.Row
}

// Addresses enumerates every address in the range in row-major order:
// the outer walk is over rows low to high, the inner over columns low
// to high. The result is identical whichever corner came first.
func (r Range) Addresses() []Address {
	n := r.Normalize()
	out := make([]Address, 0, (n.End.Row-n.Start.Row+1)*(n.End.Col-n.Start.Col+1))
	for row := n.Start.Row; row <= n.End.Row; row++ {
		for col := n.Start.Col; col <= n.End.Col; col++ {
			out = append(out, Address{Col: col, Row: row})
		}
	}
	return out
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

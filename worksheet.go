package fabrica

import (
	"fmt"
	"sort"

	"github.com/tsawler/fabrica/internal/ooxml"
	"github.com/tsawler/fabrica/ref"
	"github.com/tsawler/fabrica/style"
)

// Worksheet is one sheet of cells within a Workbook. Cells are stored
// sparsely: an address without a cell is unset, not an empty cell.
// Worksheets are created through Workbook.AddWorksheet and are not
// safe for concurrent use.
type Worksheet struct {
	name string
	wb   *Workbook

	cells  map[ref.Address]*Cell
	merges []ref.Range

	colProps map[int]*ColProperties
	rowProps map[int]*RowProperties

	autoFilter *ref.Range
	protection *SheetProtection
}

// ColProperties carries explicit formatting for one column, stored
// once per column index rather than duplicated across its cells.
type ColProperties struct {
	Width  float64
	Hidden bool
}

// RowProperties carries explicit formatting for one row.
type RowProperties struct {
	Height float64
	Hidden bool
}

// SheetProtection lists the operations disallowed while the sheet is
// protected. Each flag is independent; a set flag disallows that
// operation. Pass the struct to Protect; the password digest is
// managed through SetPassword.
type SheetProtection struct {
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

	enabled      bool
	passwordHash string
}

func newWorksheet(name string, wb *Workbook) *Worksheet {
	return &Worksheet{
		name:     name,
		wb:       wb,
		cells:    make(map[ref.Address]*Cell),
		colProps: make(map[int]*ColProperties),
		rowProps: make(map[int]*RowProperties),
	}
}

// Name returns the worksheet's name.
func (ws *Worksheet) Name() string { return ws.name }

// SetCell sets the value at an A1-style reference, replacing any
// existing cell there. The cell's type is inferred from the value;
// unrecognized value kinds are stored as text.
func (ws *Worksheet) SetCell(cellRef string, value any) error {
	return ws.SetCellType(cellRef, value, CellTypeUnset)
}

// SetCellType sets a value with an explicit type instead of letting
// the cell classify it.
func (ws *Worksheet) SetCellType(cellRef string, value any, typ CellType) error {
	addr, err := ref.Parse(cellRef)
	if err != nil {
		return err
	}
	return ws.setCell(addr, value, typ)
}

// SetFormula sets a formula expression (without the leading "=") at
// the reference.
func (ws *Worksheet) SetFormula(cellRef, formula string) error {
	return ws.SetCellType(cellRef, formula, CellTypeFormula)
}

func (ws *Worksheet) setCell(addr ref.Address, value any, typ CellType) error {
	if ws.covered(addr) {
		return fmt.Errorf("%w: %s", ErrMergedCell, addr)
	}
	c := &Cell{Address: addr, Value: value, Type: typ}
	c.resolveType()
	if old, ok := ws.cells[addr]; ok {
		// Replacement, not merge: the old cell's style reference is
		// released with it.
		if old.Style.Valid() {
			ws.wb.styles.Release(old.Style)
		}
	}
	ws.cells[addr] = c
	return nil
}

// SetRow writes values across a zero-based row starting at column A,
// one cell per element, inferring each cell's type. Element kinds the
// classifier does not recognize become text; SetRow only fails when
// the row or a column index is out of range or a target cell is
// covered by a merged range.
func (ws *Worksheet) SetRow(row int, values []any) error {
	for col, v := range values {
		addr, err := ref.New(col, row)
		if err != nil {
			return err
		}
		if err := ws.setCell(addr, v, CellTypeUnset); err != nil {
			return err
		}
	}
	return nil
}

// Cell returns the cell at the reference, or nil when the address is
// unset or the reference malformed.
func (ws *Worksheet) Cell(cellRef string) *Cell {
	addr, err := ref.Parse(cellRef)
	if err != nil {
		return nil
	}
	return ws.cells[addr]
}

// ClearCell removes the cell at the reference. Clearing an unset
// address is a no-op.
func (ws *Worksheet) ClearCell(cellRef string) error {
	addr, err := ref.Parse(cellRef)
	if err != nil {
		return err
	}
	if c, ok := ws.cells[addr]; ok {
		if c.Style.Valid() {
			ws.wb.styles.Release(c.Style)
		}
		delete(ws.cells, addr)
	}
	return nil
}

// MergeRange merges the cells covered by an A1-style range like
// "A1:B2". The top-left (anchor) cell keeps its value; every other
// covered cell is forced to the empty type and rejects writes until
// the range is unmerged. Ranges may not overlap existing merges.
func (ws *Worksheet) MergeRange(rangeRef string) error {
	r, err := ref.ParseRange(rangeRef)
	if err != nil {
		return err
	}
	n := r.Normalize()
	for _, m := range ws.merges {
		if n.Overlaps(m) {
			return fmt.Errorf("%w: %s", ErrMergeOverlap, n)
		}
	}
	for _, addr := range n.Addresses() {
		if addr == n.Start {
			continue
		}
		if c, ok := ws.cells[addr]; ok {
			c.Value = nil
			c.Type = CellTypeEmpty
		}
	}
	ws.merges = append(ws.merges, n)
	return nil
}

// UnmergeRange removes a previously merged range, restoring normal
// per-cell writability. Values cleared by the merge stay cleared.
func (ws *Worksheet) UnmergeRange(rangeRef string) error {
	r, err := ref.ParseRange(rangeRef)
	if err != nil {
		return err
	}
	n := r.Normalize()
	for i, m := range ws.merges {
		if m == n {
			ws.merges = append(ws.merges[:i], ws.merges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotMerged, n)
}

// covered reports whether the address is inside a merged range but is
// not its anchor.
func (ws *Worksheet) covered(addr ref.Address) bool {
	for _, m := range ws.merges {
		if m.Contains(addr) && addr != m.Start {
			return true
		}
	}
	return false
}

// SetCellStyle assigns an interned style to the cell at the
// reference, creating an empty cell when the address is unset. The
// handle must have been issued by this workbook's registry. The cell
// takes its own reference on the style; any previous style reference
// is released.
func (ws *Worksheet) SetCellStyle(cellRef string, h style.Handle) error {
	addr, err := ref.Parse(cellRef)
	if err != nil {
		return err
	}
	s, ok := ws.wb.styles.Style(h)
	if !ok {
		return fmt.Errorf("%w: handle not in this workbook's registry", style.ErrUndefinedStyle)
	}
	held, err := ws.wb.styles.Intern(&s)
	if err != nil {
		return err
	}
	c := ws.cell(addr)
	if c.Style.Valid() {
		ws.wb.styles.Release(c.Style)
	}
	c.Style = held
	return nil
}

// SetCellLocked sets the locked and hidden protection flags for the
// cell at the reference. The cell's current style (or the default) is
// copied, the flags are set on the copy, and the copy is interned and
// assigned — a style instance shared by other cells is never mutated.
func (ws *Worksheet) SetCellLocked(cellRef string, locked, hidden bool) error {
	addr, err := ref.Parse(cellRef)
	if err != nil {
		return err
	}
	reg := ws.wb.styles
	c := ws.cell(addr)

	base := reg.Default()
	if c.Style.Valid() {
		base = c.Style
	}
	s, err := reg.Copy(base)
	if err != nil {
		return err
	}
	s.Protection.Locked = locked
	s.Protection.Hidden = hidden

	h, err := reg.Intern(&s)
	if err != nil {
		return err
	}
	if c.Style.Valid() {
		reg.Release(c.Style)
	}
	c.Style = h
	return nil
}

// cell returns the cell at addr, materializing an empty cell when the
// address is unset.
func (ws *Worksheet) cell(addr ref.Address) *Cell {
	if c, ok := ws.cells[addr]; ok {
		return c
	}
	c := &Cell{Address: addr, Type: CellTypeEmpty}
	ws.cells[addr] = c
	return c
}

// SetColWidth sets a custom width for a zero-based column index.
func (ws *Worksheet) SetColWidth(col int, width float64) error {
	p, err := ws.col(col)
	if err != nil {
		return err
	}
	p.Width = width
	return nil
}

// SetColHidden hides or shows a zero-based column index.
func (ws *Worksheet) SetColHidden(col int, hidden bool) error {
	p, err := ws.col(col)
	if err != nil {
		return err
	}
	p.Hidden = hidden
	return nil
}

// SetRowHeight sets a custom height for a zero-based row index.
func (ws *Worksheet) SetRowHeight(row int, height float64) error {
	p, err := ws.row(row)
	if err != nil {
		return err
	}
	p.Height = height
	return nil
}

// SetRowHidden hides or shows a zero-based row index.
func (ws *Worksheet) SetRowHidden(row int, hidden bool) error {
	p, err := ws.row(row)
	if err != nil {
		return err
	}
	p.Hidden = hidden
	return nil
}

func (ws *Worksheet) col(col int) (*ColProperties, error) {
	if col < 0 || col >= ref.MaxColumns {
		return nil, fmt.Errorf("%w: column %d", ref.ErrOutOfRange, col)
	}
	p, ok := ws.colProps[col]
	if !ok {
		p = &ColProperties{}
		ws.colProps[col] = p
	}
	return p, nil
}

func (ws *Worksheet) row(row int) (*RowProperties, error) {
	if row < 0 || row >= ref.MaxRows {
		return nil, fmt.Errorf("%w: row %d", ref.ErrOutOfRange, row)
	}
	p, ok := ws.rowProps[row]
	if !ok {
		p = &RowProperties{}
		ws.rowProps[row] = p
	}
	return p, nil
}

// SetAutoFilter places an autofilter over the given A1-style range.
func (ws *Worksheet) SetAutoFilter(rangeRef string) error {
	r, err := ref.ParseRange(rangeRef)
	if err != nil {
		return err
	}
	n := r.Normalize()
	ws.autoFilter = &n
	return nil
}

// Protect enables sheet protection with the given operation locks. A
// password digest set earlier through SetPassword is kept.
func (ws *Worksheet) Protect(p SheetProtection) {
	if ws.protection != nil {
		p.passwordHash = ws.protection.passwordHash
	}
	p.enabled = true
	ws.protection = &p
}

// Unprotect disables sheet protection and forgets any password digest.
func (ws *Worksheet) Unprotect() {
	ws.protection = nil
}

// SetPassword protects the sheet with a password. Only a one-way
// digest is stored; the plaintext is never retained.
func (ws *Worksheet) SetPassword(plaintext string) {
	if ws.protection == nil {
		ws.protection = &SheetProtection{}
	}
	ws.protection.enabled = true
	ws.protection.passwordHash = ooxml.PasswordHash(plaintext)
}

// snapshot converts the worksheet into its serializer form: cells
// sorted row-major, property tables flattened, merges normalized.
func (ws *Worksheet) snapshot() ooxml.Sheet {
	s := ooxml.Sheet{Name: ws.name}

	cells := make([]*Cell, 0, len(ws.cells))
	for _, c := range ws.cells {
		cells = append(cells, c)
	}
	sortCells(cells)
	for _, c := range cells {
		s.Cells = append(s.Cells, ooxml.Cell{
			Ref:     c.Address.String(),
			Row:     c.Address.Row,
			Col:     c.Address.Col,
			Type:    cellKind(c.Type),
			Value:   c.Value,
			StyleID: c.Style.ID(),
		})
	}

	for _, m := range ws.merges {
		s.Merges = append(s.Merges, m.String())
	}
	if ws.autoFilter != nil {
		s.AutoFilter = ws.autoFilter.String()
	}

	for col, p := range ws.colProps {
		s.Cols = append(s.Cols, ooxml.ColProp{Index: col, Width: p.Width, Hidden: p.Hidden})
	}
	for row, p := range ws.rowProps {
		s.Rows = append(s.Rows, ooxml.RowProp{Index: row, Height: p.Height, Hidden: p.Hidden})
	}
	sortColProps(s.Cols)
	sortRowProps(s.Rows)

	if p := ws.protection; p != nil && p.enabled {
		s.Protection = &ooxml.SheetProtection{
			PasswordHash:        p.passwordHash,
			SelectLockedCells:   p.SelectLockedCells,
			SelectUnlockedCells: p.SelectUnlockedCells,
			FormatCells:         p.FormatCells,
			FormatColumns:       p.FormatColumns,
			FormatRows:          p.FormatRows,
			InsertColumns:       p.InsertColumns,
			InsertRows:          p.InsertRows,
			DeleteColumns:       p.DeleteColumns,
			DeleteRows:          p.DeleteRows,
			Sort:                p.Sort,
			AutoFilter:          p.AutoFilter,
		}
	}

	return s
}

func sortColProps(cols []ooxml.ColProp) {
	sort.Slice(cols, func(i, j int) bool { return cols[i].Index < cols[j].Index })
}

func sortRowProps(rows []ooxml.RowProp) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })
}

func cellKind(t CellType) ooxml.CellType {
	switch t {
	case CellTypeString:
		return ooxml.TypeString
	case CellTypeNumber:
		return ooxml.TypeNumber
	case CellTypeBoolean:
		return ooxml.TypeBool
	case CellTypeDate:
		return ooxml.TypeDate
	case CellTypeFormula:
		return ooxml.TypeFormula
	default:
		return ooxml.TypeEmpty
	}
}

package ooxml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tsawler/fabrica/style"
)

// ErrInternal marks serializer invariant violations: bookkeeping
// defects in the calling layer, never user-triggered errors. A cell
// referencing a style absent from the registry snapshot is the
// canonical example.
var ErrInternal = errors.New("ooxml: internal invariant violated")

// builtinDateFmt is the built-in "m/d/yy h:mm" number format, applied
// to date cells whose style specifies no number format of its own.
const builtinDateFmt = 22

// customNumFmtBase is the first identifier available for custom number
// format codes; lower ids are reserved for the format's built-ins.
const customNumFmtBase = 164

// Write serializes the document snapshot to w as a complete xlsx
// package. Every part is built before the archive is finalized, so a
// mid-build failure produces no output beyond what w already consumed;
// callers wanting all-or-nothing semantics pass an in-memory buffer.
func Write(w io.Writer, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInternal)
	}
	if len(doc.Sheets) == 0 {
		return fmt.Errorf("%w: document has no sheets", ErrInternal)
	}
	if len(doc.Styles) == 0 {
		return fmt.Errorf("%w: document has no style entries", ErrInternal)
	}

	// Registry insertion order fixes the numeric style indices.
	styleIdx := make(map[string]int, len(doc.Styles))
	for i, e := range doc.Styles {
		styleIdx[e.ID] = i
	}

	styles := newStyleBuilder(doc.Styles)
	sst := newSharedStrings()

	sheets := make([]*worksheetXML, len(doc.Sheets))
	for i := range doc.Sheets {
		ws, err := buildSheet(&doc.Sheets[i], styleIdx, styles, sst)
		if err != nil {
			return err
		}
		sheets[i] = ws
	}

	zw := zip.NewWriter(w)

	if err := writePart(zw, "[Content_Types].xml", contentTypes(doc, sst)); err != nil {
		return err
	}
	if err := writePart(zw, "_rels/.rels", rootRels()); err != nil {
		return err
	}
	if err := writePart(zw, "docProps/core.xml", coreProps(&doc.Meta)); err != nil {
		return err
	}
	if err := writePart(zw, "docProps/app.xml", appProps(&doc.Meta)); err != nil {
		return err
	}
	if err := writePart(zw, "xl/workbook.xml", workbookPart(doc)); err != nil {
		return err
	}
	if err := writePart(zw, "xl/_rels/workbook.xml.rels", workbookRels(doc, sst)); err != nil {
		return err
	}
	for i, ws := range sheets {
		name := fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		if err := writePart(zw, name, ws); err != nil {
			return err
		}
	}
	if err := writePart(zw, "xl/styles.xml", styles.part()); err != nil {
		return err
	}
	if sst.len() > 0 {
		if err := writePart(zw, "xl/sharedStrings.xml", sst.part()); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("ooxml: finalizing archive: %w", err)
	}
	return nil
}

// writePart writes one XML part into the archive with the standard
// declaration header.
func writePart(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("ooxml: creating part %s: %w", name, err)
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return fmt.Errorf("ooxml: writing part %s: %w", name, err)
	}
	if err := xml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("ooxml: encoding part %s: %w", name, err)
	}
	return nil
}

// buildSheet translates one sheet snapshot into its worksheet part.
// Cells arrive sorted row-major; rows carrying only explicit sizing
// are merged into the emitted row sequence.
func buildSheet(s *Sheet, styleIdx map[string]int, styles *styleBuilder, sst *sharedStrings) (*worksheetXML, error) {
	ws := &worksheetXML{Xmlns: nsSpreadsheetML, XmlnsR: nsDocRels}

	if len(s.Cols) > 0 {
		cols := append([]ColProp(nil), s.Cols...)
		sort.Slice(cols, func(i, j int) bool { return cols[i].Index < cols[j].Index })
		cx := &colsXML{}
		for _, c := range cols {
			col := colXML{Min: c.Index + 1, Max: c.Index + 1}
			if c.Width > 0 {
				col.Width = c.Width
				col.CustomWidth = 1
			}
			if c.Hidden {
				col.Hidden = 1
			}
			cx.Col = append(cx.Col, col)
		}
		ws.Cols = cx
	}

	rowProps := make(map[int]RowProp, len(s.Rows))
	for _, rp := range s.Rows {
		rowProps[rp.Index] = rp
	}

	rows := make(map[int]*rowXML)
	var order []int
	row := func(idx int) *rowXML {
		if r, ok := rows[idx]; ok {
			return r
		}
		r := &rowXML{R: idx + 1}
		if rp, ok := rowProps[idx]; ok {
			if rp.Height > 0 {
				r.Height = rp.Height
				r.CustomHeight = 1
			}
			if rp.Hidden {
				r.Hidden = 1
			}
		}
		rows[idx] = r
		order = append(order, idx)
		return r
	}

	var minCol, minRow, maxCol, maxRow int
	for i := range s.Cells {
		c := &s.Cells[i]
		cx, err := buildCell(c, styleIdx, styles, sst)
		if err != nil {
			return nil, err
		}
		r := row(c.Row)
		r.Cells = append(r.Cells, cx)

		if i == 0 || c.Col < minCol {
			minCol = c.Col
		}
		if i == 0 || c.Row < minRow {
			minRow = c.Row
		}
		if c.Col > maxCol {
			maxCol = c.Col
		}
		if c.Row > maxRow {
			maxRow = c.Row
		}
	}
	for _, rp := range s.Rows {
		row(rp.Index)
	}

	sort.Ints(order)
	for _, idx := range order {
		ws.SheetData.Rows = append(ws.SheetData.Rows, *rows[idx])
	}

	if len(s.Cells) > 0 {
		start := refString(minCol, minRow)
		end := refString(maxCol, maxRow)
		dim := start
		if end != start {
			dim = start + ":" + end
		}
		ws.Dimension = &dimensionXML{Ref: dim}
	}

	if p := s.Protection; p != nil {
		ws.Protection = &sheetProtectionXML{
			Password:            p.PasswordHash,
			Sheet:               1,
			SelectLockedCells:   boolInt(p.SelectLockedCells),
			SelectUnlockedCells: boolInt(p.SelectUnlockedCells),
			FormatCells:         boolInt(p.FormatCells),
			FormatColumns:       boolInt(p.FormatColumns),
			FormatRows:          boolInt(p.FormatRows),
			InsertColumns:       boolInt(p.InsertColumns),
			InsertRows:          boolInt(p.InsertRows),
			DeleteColumns:       boolInt(p.DeleteColumns),
			DeleteRows:          boolInt(p.DeleteRows),
			Sort:                boolInt(p.Sort),
			AutoFilter:          boolInt(p.AutoFilter),
		}
	}
	if s.AutoFilter != "" {
		ws.AutoFilter = &autoFilterXML{Ref: s.AutoFilter}
	}
	if len(s.Merges) > 0 {
		mc := &mergeCellsXML{Count: len(s.Merges)}
		for _, m := range s.Merges {
			mc.MergeCell = append(mc.MergeCell, mergeCellXML{Ref: m})
		}
		ws.MergeCells = mc
	}

	return ws, nil
}

// buildCell emits one cell record. Text goes through the shared-string
// table (the fixed representation policy for this serializer); dates
// become Excel serial numbers.
func buildCell(c *Cell, styleIdx map[string]int, styles *styleBuilder, sst *sharedStrings) (cellXML, error) {
	cx := cellXML{R: c.Ref}

	idx := 0
	if c.StyleID != "" {
		i, ok := styleIdx[c.StyleID]
		if !ok {
			return cellXML{}, fmt.Errorf("%w: cell %s references style %s absent from the registry", ErrInternal, c.Ref, c.StyleID)
		}
		idx = i
	}

	switch c.Type {
	case TypeString:
		cx.T = "s"
		cx.V = strconv.Itoa(sst.add(textString(c.Value)))
	case TypeNumber:
		cx.V = numberString(c.Value)
	case TypeBool:
		cx.T = "b"
		cx.V = "0"
		if b, ok := c.Value.(bool); ok && b {
			cx.V = "1"
		}
	case TypeDate:
		t, ok := c.Value.(time.Time)
		if !ok {
			return cellXML{}, fmt.Errorf("%w: cell %s typed as date holds %T", ErrInternal, c.Ref, c.Value)
		}
		cx.V = strconv.FormatFloat(excelSerial(t), 'f', -1, 64)
		idx = styles.dateXf(idx)
	case TypeFormula:
		cx.F = textString(c.Value)
	case TypeEmpty:
		// no value children
	default:
		return cellXML{}, fmt.Errorf("%w: cell %s has unknown type %d", ErrInternal, c.Ref, c.Type)
	}

	cx.S = idx
	return cx, nil
}

// refString formats a zero-based coordinate pair as an A1 reference;
// bounds were validated upstream.
func refString(col, row int) string {
	var buf [3]byte
	i := len(buf)
	for n := col + 1; n > 0; n /= 26 {
		n--
		i--
		buf[i] = byte('A' + n%26)
	}
	return string(buf[i:]) + strconv.Itoa(row+1)
}

func textString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func numberString(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int8:
		return strconv.FormatInt(int64(n), 10)
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint8:
		return strconv.FormatUint(uint64(n), 10)
	case uint16:
		return strconv.FormatUint(uint64(n), 10)
	case uint32:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case decimal.Decimal:
		return n.String()
	default:
		return fmt.Sprint(v)
	}
}

// excelSerial converts a timestamp to the format's serial day number:
// days since 1899-12-30, fractional part carrying the time of day.
func excelSerial(t time.Time) float64 {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, t.Location())
	return float64(t.Sub(epoch)) / float64(24*time.Hour)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sharedStrings interns text values into the indexed shared-string
// table. The table is the serializer's fixed text policy; inline
// strings are never mixed in.
type sharedStrings struct {
	list []string
	idx  map[string]int
	refs int
}

func newSharedStrings() *sharedStrings {
	return &sharedStrings{idx: make(map[string]int)}
}

func (s *sharedStrings) add(v string) int {
	s.refs++
	if i, ok := s.idx[v]; ok {
		return i
	}
	i := len(s.list)
	s.list = append(s.list, v)
	s.idx[v] = i
	return i
}

func (s *sharedStrings) len() int { return len(s.list) }

func (s *sharedStrings) part() *sstXML {
	p := &sstXML{Xmlns: nsSpreadsheetML, Count: s.refs, UniqueCount: len(s.list)}
	for _, v := range s.list {
		si := siXML{T: textXML{Value: v}}
		if len(v) > 0 && (v[0] == ' ' || v[0] == '\t' || v[len(v)-1] == ' ' || v[len(v)-1] == '\t') {
			si.T.Space = "preserve"
		}
		p.SI = append(p.SI, si)
	}
	return p
}

// styleBuilder translates registry entries into the styles part,
// deduplicating fonts, fills, borders and custom number formats into
// the part's pools. Entry i of the registry snapshot becomes cellXfs
// index i; derived date formats are appended after the registry block
// so registry indices stay stable.
type styleBuilder struct {
	fonts   []fontXML
	fills   []fillXML
	borders []borderXML
	numFmts []numFmtXML
	xfs     []xfXML

	fontIdx   map[style.Font]int
	fillIdx   map[style.Fill]int
	borderIdx map[style.Border]int
	numFmtIdx map[string]int
	dateXfIdx map[int]int
}

func newStyleBuilder(entries []StyleEntry) *styleBuilder {
	b := &styleBuilder{
		fontIdx:   make(map[style.Font]int),
		fillIdx:   make(map[style.Fill]int),
		borderIdx: make(map[style.Border]int),
		numFmtIdx: make(map[string]int),
		dateXfIdx: make(map[int]int),
	}

	// Format-mandated pool defaults: font 0, the none and gray125
	// fills, border 0.
	b.fonts = append(b.fonts, fontRecord(style.Font{}))
	b.fontIdx[style.Font{}] = 0
	b.fills = append(b.fills,
		fillXML{PatternFill: patternFillXML{PatternType: "none"}},
		fillXML{PatternFill: patternFillXML{PatternType: "gray125"}},
	)
	b.fillIdx[style.Fill{}] = 0
	b.fillIdx[style.Fill{Pattern: "gray125"}] = 1
	b.borders = append(b.borders, borderXML{})
	b.borderIdx[style.Border{}] = 0

	for _, e := range entries {
		b.xfs = append(b.xfs, b.xfFor(e.Style))
	}
	return b
}

func (b *styleBuilder) xfFor(s style.Style) xfXML {
	var xf xfXML

	switch {
	case s.NumberFormat.Code != "":
		xf.NumFmtID = b.customNumFmt(s.NumberFormat.Code)
		xf.ApplyNumberFormat = 1
	case s.NumberFormat.ID != 0:
		xf.NumFmtID = s.NumberFormat.ID
		xf.ApplyNumberFormat = 1
	}

	if s.Font != (style.Font{}) {
		xf.FontID = b.font(s.Font)
		xf.ApplyFont = 1
	}
	if s.Fill != (style.Fill{}) {
		xf.FillID = b.fill(s.Fill)
		xf.ApplyFill = 1
	}
	if s.Border != (style.Border{}) {
		xf.BorderID = b.border(s.Border)
		xf.ApplyBorder = 1
	}
	if s.Alignment != (style.Alignment{}) {
		xf.Alignment = &alignmentXML{
			Horizontal: s.Alignment.Horizontal,
			Vertical:   s.Alignment.Vertical,
			WrapText:   boolInt(s.Alignment.WrapText),
		}
		xf.ApplyAlignment = 1
	}

	// Locked without hidden is the format's default; anything else is
	// emitted explicitly so unlocking survives sheet protection.
	if s.Protection != (style.Protection{Locked: true}) {
		locked := boolInt(s.Protection.Locked)
		hidden := boolInt(s.Protection.Hidden)
		xf.Protection = &protectionXML{Locked: &locked, Hidden: &hidden}
		xf.ApplyProtection = 1
	}

	return xf
}

// dateXf returns the cellXfs index to use for a date cell styled with
// base. A style that sets its own number format is respected;
// otherwise a copy with the built-in date format is appended once.
func (b *styleBuilder) dateXf(base int) int {
	if idx, ok := b.dateXfIdx[base]; ok {
		return idx
	}
	xf := b.xfs[base]
	if xf.NumFmtID != 0 {
		b.dateXfIdx[base] = base
		return base
	}
	xf.NumFmtID = builtinDateFmt
	xf.ApplyNumberFormat = 1
	idx := len(b.xfs)
	b.xfs = append(b.xfs, xf)
	b.dateXfIdx[base] = idx
	return idx
}

func (b *styleBuilder) font(f style.Font) int {
	if id, ok := b.fontIdx[f]; ok {
		return id
	}
	id := len(b.fonts)
	b.fontIdx[f] = id
	b.fonts = append(b.fonts, fontRecord(f))
	return id
}

func fontRecord(f style.Font) fontXML {
	rec := fontXML{Sz: valXML{Val: 11}, Name: nameXML{Val: "Calibri"}}
	if f.Size > 0 {
		rec.Sz.Val = f.Size
	}
	if f.Name != "" {
		rec.Name.Val = f.Name
	}
	if f.Bold {
		rec.B = &struct{}{}
	}
	if f.Italic {
		rec.I = &struct{}{}
	}
	if f.Underline {
		rec.U = &struct{}{}
	}
	if f.Color != "" {
		rec.Color = &colorXML{RGB: f.Color}
	}
	return rec
}

func (b *styleBuilder) fill(f style.Fill) int {
	if id, ok := b.fillIdx[f]; ok {
		return id
	}
	pattern := f.Pattern
	if pattern == "" {
		pattern = "solid"
	}
	rec := fillXML{PatternFill: patternFillXML{PatternType: pattern}}
	if f.Color != "" {
		rec.PatternFill.FgColor = &colorXML{RGB: f.Color}
	}
	id := len(b.fills)
	b.fillIdx[f] = id
	b.fills = append(b.fills, rec)
	return id
}

func (b *styleBuilder) border(bd style.Border) int {
	if id, ok := b.borderIdx[bd]; ok {
		return id
	}
	rec := borderXML{
		Left:   borderSide(bd.Left),
		Right:  borderSide(bd.Right),
		Top:    borderSide(bd.Top),
		Bottom: borderSide(bd.Bottom),
	}
	id := len(b.borders)
	b.borderIdx[bd] = id
	b.borders = append(b.borders, rec)
	return id
}

func borderSide(l style.Line) borderSideXML {
	side := borderSideXML{Style: l.Style}
	if l.Color != "" {
		side.Color = &colorXML{RGB: l.Color}
	}
	return side
}

func (b *styleBuilder) customNumFmt(code string) int {
	if id, ok := b.numFmtIdx[code]; ok {
		return id
	}
	id := customNumFmtBase + len(b.numFmts)
	b.numFmtIdx[code] = id
	b.numFmts = append(b.numFmts, numFmtXML{NumFmtID: id, FormatCode: code})
	return id
}

func (b *styleBuilder) part() *styleSheetXML {
	p := &styleSheetXML{
		Xmlns:   nsSpreadsheetML,
		Fonts:   fontsXML{Count: len(b.fonts), Font: b.fonts},
		Fills:   fillsXML{Count: len(b.fills), Fill: b.fills},
		Borders: bordersXML{Count: len(b.borders), Border: b.borders},
		CellXfs: cellXfsXML{Count: len(b.xfs), Xf: b.xfs},
	}
	if len(b.numFmts) > 0 {
		p.NumFmts = &numFmtsXML{Count: len(b.numFmts), NumFmt: b.numFmts}
	}
	return p
}

func contentTypes(doc *Document, sst *sharedStrings) *contentTypesXML {
	ct := &contentTypesXML{
		Xmlns: nsContentTypes,
		Defaults: []defaultXML{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []overrideXML{
			{PartName: "/xl/workbook.xml", ContentType: ctWorkbook},
		},
	}
	for i := range doc.Sheets {
		ct.Overrides = append(ct.Overrides, overrideXML{
			PartName:    fmt.Sprintf("/xl/worksheets/sheet%d.xml", i+1),
			ContentType: ctWorksheet,
		})
	}
	ct.Overrides = append(ct.Overrides,
		overrideXML{PartName: "/xl/styles.xml", ContentType: ctStyles},
	)
	if sst.len() > 0 {
		ct.Overrides = append(ct.Overrides,
			overrideXML{PartName: "/xl/sharedStrings.xml", ContentType: ctSharedStrings},
		)
	}
	ct.Overrides = append(ct.Overrides,
		overrideXML{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
		overrideXML{PartName: "/docProps/app.xml", ContentType: ctAppProps},
	)
	return ct
}

func rootRels() *relationshipsXML {
	return &relationshipsXML{
		Xmlns: nsPackageRels,
		Relationship: []relationshipXML{
			{ID: "rId1", Type: relTypeOfficeDoc, Target: "xl/workbook.xml"},
			{ID: "rId2", Type: relTypeCoreProps, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relTypeAppProps, Target: "docProps/app.xml"},
		},
	}
}

func workbookPart(doc *Document) *workbookXML {
	wb := &workbookXML{Xmlns: nsSpreadsheetML, XmlnsR: nsDocRels}
	if p := doc.Protection; p != nil {
		wb.Protection = &workbookProtectionXML{
			Password:      p.PasswordHash,
			LockStructure: boolInt(p.LockStructure),
			LockWindows:   boolInt(p.LockWindows),
		}
	}
	for i, s := range doc.Sheets {
		wb.Sheets.Sheet = append(wb.Sheets.Sheet, sheetRefXML{
			Name:    s.Name,
			SheetID: i + 1,
			RID:     fmt.Sprintf("rId%d", i+1),
		})
	}
	return wb
}

func workbookRels(doc *Document, sst *sharedStrings) *relationshipsXML {
	rels := &relationshipsXML{Xmlns: nsPackageRels}
	for i := range doc.Sheets {
		rels.Relationship = append(rels.Relationship, relationshipXML{
			ID:     fmt.Sprintf("rId%d", i+1),
			Type:   relTypeWorksheet,
			Target: fmt.Sprintf("worksheets/sheet%d.xml", i+1),
		})
	}
	next := len(doc.Sheets) + 1
	rels.Relationship = append(rels.Relationship, relationshipXML{
		ID:     fmt.Sprintf("rId%d", next),
		Type:   relTypeStyles,
		Target: "styles.xml",
	})
	if sst.len() > 0 {
		rels.Relationship = append(rels.Relationship, relationshipXML{
			ID:     fmt.Sprintf("rId%d", next+1),
			Type:   relTypeSharedStrings,
			Target: "sharedStrings.xml",
		})
	}
	return rels
}

func coreProps(m *Metadata) *corePropsXML {
	p := &corePropsXML{
		XmlnsCP:        "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		XmlnsDC:        "http://purl.org/dc/elements/1.1/",
		XmlnsDCTerms:   "http://purl.org/dc/terms/",
		XmlnsXSI:       "http://www.w3.org/2001/XMLSchema-instance",
		Title:          m.Title,
		Subject:        m.Subject,
		Creator:        m.Creator,
		Keywords:       m.Keywords,
		Description:    m.Description,
		LastModifiedBy: m.LastModifiedBy,
		Category:       m.Category,
	}
	if !m.Created.IsZero() {
		p.Created = &dcTermsDate{Type: "dcterms:W3CDTF", Value: m.Created.UTC().Format(time.RFC3339)}
	}
	if !m.Modified.IsZero() {
		p.Modified = &dcTermsDate{Type: "dcterms:W3CDTF", Value: m.Modified.UTC().Format(time.RFC3339)}
	}
	return p
}

func appProps(m *Metadata) *appPropsXML {
	return &appPropsXML{
		Xmlns:       "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties",
		XmlnsVT:     "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes",
		Application: m.Application,
		Company:     m.Company,
	}
}

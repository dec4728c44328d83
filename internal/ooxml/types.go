package ooxml

import "encoding/xml"

// XML namespaces and content types used by the package parts.
const (
	nsSpreadsheetML = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsDocRels       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"

	ctWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctAppProps      = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels          = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"

	relTypeOfficeDoc     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeAppProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeWorksheet     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relTypeStyles        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeSharedStrings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []defaultXML  `xml:"Default"`
	Overrides []overrideXML `xml:"Override"`
}

type defaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// relationshipsXML represents a .rels part.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Xmlns        string            `xml:"xmlns,attr"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// workbookXML represents xl/workbook.xml.
type workbookXML struct {
	XMLName    xml.Name               `xml:"workbook"`
	Xmlns      string                 `xml:"xmlns,attr"`
	XmlnsR     string                 `xml:"xmlns:r,attr"`
	Protection *workbookProtectionXML `xml:"workbookProtection"`
	Sheets     sheetsXML              `xml:"sheets"`
}

type workbookProtectionXML struct {
	Password      string `xml:"workbookPassword,attr,omitempty"`
	LockStructure int    `xml:"lockStructure,attr,omitempty"`
	LockWindows   int    `xml:"lockWindows,attr,omitempty"`
}

type sheetsXML struct {
	Sheet []sheetRefXML `xml:"sheet"`
}

type sheetRefXML struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	RID     string `xml:"r:id,attr"`
}

// worksheetXML represents one xl/worksheets/sheetN.xml part. Field
// order follows the schema's element sequence.
type worksheetXML struct {
	XMLName    xml.Name            `xml:"worksheet"`
	Xmlns      string              `xml:"xmlns,attr"`
	XmlnsR     string              `xml:"xmlns:r,attr"`
	Dimension  *dimensionXML       `xml:"dimension"`
	Cols       *colsXML            `xml:"cols"`
	SheetData  sheetDataXML        `xml:"sheetData"`
	Protection *sheetProtectionXML `xml:"sheetProtection"`
	AutoFilter *autoFilterXML      `xml:"autoFilter"`
	MergeCells *mergeCellsXML      `xml:"mergeCells"`
}

type dimensionXML struct {
	Ref string `xml:"ref,attr"`
}

type colsXML struct {
	Col []colXML `xml:"col"`
}

type colXML struct {
	Min         int     `xml:"min,attr"`
	Max         int     `xml:"max,attr"`
	Width       float64 `xml:"width,attr,omitempty"`
	CustomWidth int     `xml:"customWidth,attr,omitempty"`
	Hidden      int     `xml:"hidden,attr,omitempty"`
}

type sheetDataXML struct {
	Rows []rowXML `xml:"row"`
}

type rowXML struct {
	R            int       `xml:"r,attr"`
	Height       float64   `xml:"ht,attr,omitempty"`
	CustomHeight int       `xml:"customHeight,attr,omitempty"`
	Hidden       int       `xml:"hidden,attr,omitempty"`
	Cells        []cellXML `xml:"c"`
}

type cellXML struct {
	R string `xml:"r,attr"`
	S int    `xml:"s,attr,omitempty"`
	T string `xml:"t,attr,omitempty"`
	F string `xml:"f,omitempty"`
	V string `xml:"v,omitempty"`
}

type sheetProtectionXML struct {
	Password            string `xml:"password,attr,omitempty"`
	Sheet               int    `xml:"sheet,attr"`
	SelectLockedCells   int    `xml:"selectLockedCells,attr,omitempty"`
	SelectUnlockedCells int    `xml:"selectUnlockedCells,attr,omitempty"`
	FormatCells         int    `xml:"formatCells,attr,omitempty"`
	FormatColumns       int    `xml:"formatColumns,attr,omitempty"`
	FormatRows          int    `xml:"formatRows,attr,omitempty"`
	InsertColumns       int    `xml:"insertColumns,attr,omitempty"`
	InsertRows          int    `xml:"insertRows,attr,omitempty"`
	DeleteColumns       int    `xml:"deleteColumns,attr,omitempty"`
	DeleteRows          int    `xml:"deleteRows,attr,omitempty"`
	Sort                int    `xml:"sort,attr,omitempty"`
	AutoFilter          int    `xml:"autoFilter,attr,omitempty"`
}

type autoFilterXML struct {
	Ref string `xml:"ref,attr"`
}

type mergeCellsXML struct {
	Count     int            `xml:"count,attr"`
	MergeCell []mergeCellXML `xml:"mergeCell"`
}

type mergeCellXML struct {
	Ref string `xml:"ref,attr"`
}

// sstXML represents xl/sharedStrings.xml.
type sstXML struct {
	XMLName     xml.Name `xml:"sst"`
	Xmlns       string   `xml:"xmlns,attr"`
	Count       int      `xml:"count,attr"`
	UniqueCount int      `xml:"uniqueCount,attr"`
	SI          []siXML  `xml:"si"`
}

type siXML struct {
	T textXML `xml:"t"`
}

// textXML preserves leading and trailing whitespace in string values.
type textXML struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// styleSheetXML represents xl/styles.xml.
type styleSheetXML struct {
	XMLName xml.Name    `xml:"styleSheet"`
	Xmlns   string      `xml:"xmlns,attr"`
	NumFmts *numFmtsXML `xml:"numFmts"`
	Fonts   fontsXML    `xml:"fonts"`
	Fills   fillsXML    `xml:"fills"`
	Borders bordersXML  `xml:"borders"`
	CellXfs cellXfsXML  `xml:"cellXfs"`
}

type numFmtsXML struct {
	Count  int         `xml:"count,attr"`
	NumFmt []numFmtXML `xml:"numFmt"`
}

type numFmtXML struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type fontsXML struct {
	Count int       `xml:"count,attr"`
	Font  []fontXML `xml:"font"`
}

// fontXML child order follows the schema: b, i, u, sz, color, name.
type fontXML struct {
	B     *struct{} `xml:"b"`
	I     *struct{} `xml:"i"`
	U     *struct{} `xml:"u"`
	Sz    valXML    `xml:"sz"`
	Color *colorXML `xml:"color"`
	Name  nameXML   `xml:"name"`
}

type valXML struct {
	Val float64 `xml:"val,attr"`
}

type nameXML struct {
	Val string `xml:"val,attr"`
}

type colorXML struct {
	RGB string `xml:"rgb,attr"`
}

type fillsXML struct {
	Count int       `xml:"count,attr"`
	Fill  []fillXML `xml:"fill"`
}

type fillXML struct {
	PatternFill patternFillXML `xml:"patternFill"`
}

type patternFillXML struct {
	PatternType string    `xml:"patternType,attr"`
	FgColor     *colorXML `xml:"fgColor"`
}

type bordersXML struct {
	Count  int         `xml:"count,attr"`
	Border []borderXML `xml:"border"`
}

type borderXML struct {
	Left   borderSideXML `xml:"left"`
	Right  borderSideXML `xml:"right"`
	Top    borderSideXML `xml:"top"`
	Bottom borderSideXML `xml:"bottom"`
}

type borderSideXML struct {
	Style string    `xml:"style,attr,omitempty"`
	Color *colorXML `xml:"color"`
}

type cellXfsXML struct {
	Count int     `xml:"count,attr"`
	Xf    []xfXML `xml:"xf"`
}

type xfXML struct {
	NumFmtID          int            `xml:"numFmtId,attr"`
	FontID            int            `xml:"fontId,attr"`
	FillID            int            `xml:"fillId,attr"`
	BorderID          int            `xml:"borderId,attr"`
	ApplyNumberFormat int            `xml:"applyNumberFormat,attr,omitempty"`
	ApplyFont         int            `xml:"applyFont,attr,omitempty"`
	ApplyFill         int            `xml:"applyFill,attr,omitempty"`
	ApplyBorder       int            `xml:"applyBorder,attr,omitempty"`
	ApplyAlignment    int            `xml:"applyAlignment,attr,omitempty"`
	ApplyProtection   int            `xml:"applyProtection,attr,omitempty"`
	Alignment         *alignmentXML  `xml:"alignment"`
	Protection        *protectionXML `xml:"protection"`
}

type alignmentXML struct {
	Horizontal string `xml:"horizontal,attr,omitempty"`
	Vertical   string `xml:"vertical,attr,omitempty"`
	WrapText   int    `xml:"wrapText,attr,omitempty"`
}

type protectionXML struct {
	Locked *int `xml:"locked,attr"`
	Hidden *int `xml:"hidden,attr"`
}

// corePropsXML represents docProps/core.xml.
type corePropsXML struct {
	XMLName        xml.Name     `xml:"cp:coreProperties"`
	XmlnsCP        string       `xml:"xmlns:cp,attr"`
	XmlnsDC        string       `xml:"xmlns:dc,attr"`
	XmlnsDCTerms   string       `xml:"xmlns:dcterms,attr"`
	XmlnsXSI       string       `xml:"xmlns:xsi,attr"`
	Title          string       `xml:"dc:title,omitempty"`
	Subject        string       `xml:"dc:subject,omitempty"`
	Creator        string       `xml:"dc:creator,omitempty"`
	Keywords       string       `xml:"cp:keywords,omitempty"`
	Description    string       `xml:"dc:description,omitempty"`
	LastModifiedBy string       `xml:"cp:lastModifiedBy,omitempty"`
	Category       string       `xml:"cp:category,omitempty"`
	Created        *dcTermsDate `xml:"dcterms:created"`
	Modified       *dcTermsDate `xml:"dcterms:modified"`
}

type dcTermsDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

// appPropsXML represents docProps/app.xml.
type appPropsXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Xmlns       string   `xml:"xmlns,attr"`
	XmlnsVT     string   `xml:"xmlns:vt,attr"`
	Application string   `xml:"Application,omitempty"`
	Company     string   `xml:"Company,omitempty"`
}

package fabrica

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsawler/fabrica/internal/ooxml"
	"github.com/tsawler/fabrica/style"
)

// Metadata holds the document properties written to the package's
// docProps parts. Empty fields are omitted on save.
type Metadata struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       string
	Description    string
	Category       string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
}

// WorkbookProtection locks the workbook's structure (sheet list) or
// window layout. The password digest is managed through
// Workbook.SetPassword.
type WorkbookProtection struct {
	LockStructure bool
	LockWindows   bool

	enabled      bool
	passwordHash string
}

// Workbook is an in-memory spreadsheet document: an ordered list of
// worksheets, a style registry, and document metadata. Create one
// with New or NewWithOptions; a Workbook is not safe for concurrent
// use.
type Workbook struct {
	options Options
	meta    Metadata
	styles  *style.Registry

	sheets     []*Worksheet
	protection *WorkbookProtection
}

// New creates an empty workbook with default options. The workbook
// starts with no worksheets; at least one must be added before it can
// be saved.
func New() *Workbook {
	return NewWithOptions(defaultOptions())
}

// NewWithOptions creates an empty workbook with the given options.
// Zero-valued option fields fall back to their defaults.
func NewWithOptions(opts Options) *Workbook {
	def := defaultOptions()
	if opts.Application == "" {
		opts.Application = def.Application
	}
	return &Workbook{
		options: opts,
		styles:  style.NewRegistry(),
	}
}

// Styles returns the workbook's style registry. Handles issued by the
// registry are only meaningful within this workbook.
func (wb *Workbook) Styles() *style.Registry { return wb.styles }

// AddWorksheet appends a new worksheet with the given name. Names
// must be non-empty, at most 31 characters, and unique within the
// workbook ignoring case.
func (wb *Workbook) AddWorksheet(name string) (*Worksheet, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrSheetName)
	}
	if len([]rune(name)) > 31 {
		return nil, fmt.Errorf("%w: %q exceeds 31 characters", ErrSheetName, name)
	}
	if strings.ContainsAny(name, `[]:*?/\`) {
		return nil, fmt.Errorf("%w: %q contains a reserved character", ErrSheetName, name)
	}
	for _, ws := range wb.sheets {
		if strings.EqualFold(ws.name, name) {
			return nil, fmt.Errorf("%w: %q", ErrSheetExists, name)
		}
	}
	ws := newWorksheet(name, wb)
	wb.sheets = append(wb.sheets, ws)
	return ws, nil
}

// Worksheet returns the worksheet with the given name, matched
// ignoring case, or nil when no such sheet exists.
func (wb *Workbook) Worksheet(name string) *Worksheet {
	for _, ws := range wb.sheets {
		if strings.EqualFold(ws.name, name) {
			return ws
		}
	}
	return nil
}

// Worksheets returns the workbook's sheets in insertion order, which
// is also their tab order in the saved package.
func (wb *Workbook) Worksheets() []*Worksheet {
	out := make([]*Worksheet, len(wb.sheets))
	copy(out, wb.sheets)
	return out
}

// AddStyle interns a style definition and returns a handle for it.
// Equal definitions share one handle.
func (wb *Workbook) AddStyle(s *style.Style) (style.Handle, error) {
	return wb.styles.Intern(s)
}

// RemoveStyle releases one reference to an interned style.
func (wb *Workbook) RemoveStyle(h style.Handle) error {
	return wb.styles.Release(h)
}

// SetMetadata replaces the workbook's document properties.
func (wb *Workbook) SetMetadata(m Metadata) {
	wb.meta = m
}

// Metadata returns the workbook's document properties.
func (wb *Workbook) Metadata() Metadata { return wb.meta }

// Protect enables workbook protection with the given locks. A
// password digest set earlier through SetPassword is kept.
func (wb *Workbook) Protect(p WorkbookProtection) {
	if wb.protection != nil {
		p.passwordHash = wb.protection.passwordHash
	}
	p.enabled = true
	wb.protection = &p
}

// Unprotect disables workbook protection and forgets any password
// digest.
func (wb *Workbook) Unprotect() {
	wb.protection = nil
}

// SetPassword protects the workbook structure with a password. Only a
// one-way digest is stored; the plaintext is never retained.
func (wb *Workbook) SetPassword(plaintext string) {
	if wb.protection == nil {
		wb.protection = &WorkbookProtection{LockStructure: true}
	}
	wb.protection.enabled = true
	wb.protection.passwordHash = ooxml.PasswordHash(plaintext)
}

// Save serializes the workbook into w as a complete .xlsx package.
// The archive is staged in memory first, so a serialization failure
// writes nothing to w. The workbook must contain at least one
// worksheet.
func (wb *Workbook) Save(w io.Writer) error {
	doc, err := wb.snapshot()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := ooxml.Write(&buf, doc); err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("fabrica: write package: %w", err)
	}
	return nil
}

// SaveFile saves the workbook to the named file. The package is
// written to a temporary file in the same directory and renamed into
// place, so an existing file at name is never left truncated by a
// failed save.
func (wb *Workbook) SaveFile(name string) error {
	doc, err := wb.snapshot()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := ooxml.Write(&buf, doc); err != nil {
		return err
	}

	dir := filepath.Dir(name)
	tmp, err := os.CreateTemp(dir, filepath.Base(name)+".tmp*")
	if err != nil {
		return fmt.Errorf("fabrica: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("fabrica: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("fabrica: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, name); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("fabrica: rename to %s: %w", name, err)
	}
	return nil
}

// snapshot freezes the workbook into the serializer's document form.
// Mutations made after snapshot returns do not affect the copy.
func (wb *Workbook) snapshot() (*ooxml.Document, error) {
	if len(wb.sheets) == 0 {
		return nil, ErrNoWorksheets
	}

	doc := &ooxml.Document{
		Meta: ooxml.Metadata{
			Title:          wb.meta.Title,
			Subject:        wb.meta.Subject,
			Creator:        wb.meta.Creator,
			Keywords:       wb.meta.Keywords,
			Description:    wb.meta.Description,
			Category:       wb.meta.Category,
			LastModifiedBy: wb.meta.LastModifiedBy,
			Application:    wb.options.Application,
			Company:        wb.options.Company,
			Created:        wb.meta.Created,
			Modified:       wb.meta.Modified,
		},
	}

	for _, e := range wb.styles.Entries() {
		doc.Styles = append(doc.Styles, ooxml.StyleEntry{ID: e.ID, Style: e.Style})
	}
	for _, ws := range wb.sheets {
		doc.Sheets = append(doc.Sheets, ws.snapshot())
	}
	if p := wb.protection; p != nil && p.enabled {
		doc.Protection = &ooxml.WorkbookProtection{
			LockStructure: p.LockStructure,
			LockWindows:   p.LockWindows,
			PasswordHash:  p.passwordHash,
		}
	}
	return doc, nil
}

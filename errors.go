package fabrica

import "errors"

// Errors reported by the workbook build surface. Address and style
// errors surface from the ref and style packages; archive write
// failures are wrapped with %w at the point of I/O.
var (
	// ErrSheetName indicates an empty, too-long, or reserved-character worksheet name.
	ErrSheetName = errors.New("fabrica: invalid worksheet name")
	// ErrSheetExists indicates a case-insensitive worksheet name collision.
	ErrSheetExists = errors.New("fabrica: worksheet name already in use")
	// ErrNoWorksheets indicates an attempt to save a workbook with no sheets.
	ErrNoWorksheets = errors.New("fabrica: workbook has no worksheets")
	// ErrMergeOverlap indicates a merge request crossing an existing merged range.
	ErrMergeOverlap = errors.New("fabrica: range overlaps an existing merged range")
	// ErrMergedCell indicates a write to a non-anchor cell of a merged range.
	ErrMergedCell = errors.New("fabrica: cell is covered by a merged range")
	// ErrNotMerged indicates an unmerge of a range that was never merged.
	ErrNotMerged = errors.New("fabrica: range is not merged")
)

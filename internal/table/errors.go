package table

import "errors"

// Errors returned by table operations.
var (
	// ErrRowOutOfRange indicates a row index outside the valid range.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrColumnOutOfRange indicates a column index outside the valid range.
	ErrColumnOutOfRange = errors.New("column index out of range")

	// ErrColumnCountMismatch indicates a row whose cell count does not
	// match the header count.
	ErrColumnCountMismatch = errors.New("cell count does not match column count")

	// ErrBadPermutation indicates a row reordering that is not a
	// permutation of the current row indices.
	ErrBadPermutation = errors.New("reordering is not a permutation of row indices")
)

package engine

import "github.com/tablo-edit/tablo/internal/engine/history"

// Errors surfaced by engine operations, re-exported for callers that do
// not import the history package directly.
var (
	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)

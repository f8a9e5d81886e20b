package engine

import "github.com/tablo-edit/tablo/internal/table"

// Option configures an Engine during creation.
type Option func(*Engine)

// WithTable sets the initial table. The engine takes ownership of a
// deep copy, never the caller's instance.
func WithTable(tbl *table.Table) Option {
	return func(e *Engine) {
		if tbl != nil {
			e.tbl = tbl.Clone()
		}
	}
}

// WithMaxUndoEntries sets the undo history capacity.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithListener registers a snapshot listener at creation time.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		if l != nil {
			e.listeners = append(e.listeners, l)
		}
	}
}

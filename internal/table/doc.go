// Package table provides the in-memory grid model for a Markdown table.
//
// A Table holds an ordered header sequence and an ordered list of rows.
// Every row has exactly one cell per header at all times; structural
// operations (column insertion and removal) update the headers and every
// row in the same call so the invariant is never observable broken.
//
// Tables are mutated exclusively through the accessor methods here, which
// bounds-check their arguments and leave the grid untouched on error. The
// edit-operation layer in internal/engine/history builds its invertible
// commands on top of these primitives.
//
// # Snapshots and identity
//
// Clone produces a deep copy with no shared cell storage, suitable for
// history capture and revision stores. Equal compares two tables by
// content. RowKey serializes a row to a pipe-delimited identity line,
// which the diff layer uses as the unit of row comparison.
package table

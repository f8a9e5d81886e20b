// Package diff computes the structural difference between an old and a
// new table layout and reconciles it against live table data for
// annotated rendering.
//
// # Column alignment
//
// ComputeColumnDiff aligns two header sequences with an order-preserving
// longest-common-subsequence over header text. A single column inserted
// in the middle is classified as added at that index rather than
// shifting every later column's mapping. Duplicate header names are
// resolved by nearest unmatched position; ColumnDiff.Ambiguous reports
// when that tie-break was in effect.
//
// # Row alignment
//
// ComputeRowDiff runs a Myers line diff over serialized row identity
// lines (see table.JoinKey), classifying every row as kept, modified,
// added, or deleted. A deleted run followed by an inserted run of rows
// with matching column counts pairs up as modified rows, preserving row
// identity for UI continuity instead of degrading edits to delete+add.
//
// # Reconciliation
//
// Reconcile merges a ColumnDiff, a RowDiff, and the current table into a
// Grid. Deleted rows render against the layout they were written in:
// one data cell per old column, with a placeholder cell at each position
// where the new layout inserted a column. Kept and added rows render
// from the current table at the current column count.
package diff

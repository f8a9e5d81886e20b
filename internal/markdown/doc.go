// Package markdown parses GitHub-flavored Markdown tables into the grid
// model and serializes grids back to Markdown.
//
// Parsing is tolerant: body rows with too few cells are padded to the
// header width and rows with too many are truncated, so a half-edited
// document still loads. The delimiter row's alignment markers (:---,
// :--:, ---:) are preserved and re-emitted on render.
//
// Rendering pads every column to its widest cell using display width,
// not byte length, so tables with CJK or emoji content still line up.
package markdown

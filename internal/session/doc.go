// Package session binds a Markdown document on disk to an edit engine.
//
// A session parses the first table of the document, routes edits through
// the engine, and writes the reformatted document back. It also keeps a
// bounded store of named revisions so the current table can be diffed
// and reconciled against any earlier point.
package session

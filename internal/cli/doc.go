// Package cli renders annotated reconciliation grids for terminal
// output.
package cli

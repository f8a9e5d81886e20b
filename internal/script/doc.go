// Package script runs Lua bulk transforms over a table.
//
// A script defines a global function
//
//	function transform(row, col, header, value)
//	  return value
//	end
//
// which is called once per cell. Returning a string or number replaces
// the cell; returning nil keeps it. All changes land as one undoable
// bulk edit, so a transform over the whole table undoes in one step.
//
// Scripts run in a restricted state: only the base, table, string, and
// math libraries are loaded, and the loaders (dofile, loadfile, load)
// are removed.
package script

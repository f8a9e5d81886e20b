// Package command is the JSON bridge between an editor host and the
// engine: it decodes inbound edit commands into invertible operations
// and encodes outbound table snapshots and annotated diff grids.
//
// Inbound messages carry a "command" name plus the fields of the
// matching operation, for example:
//
//	{"command": "updateCell", "row": 2, "col": 0, "value": "ada"}
//	{"command": "sort", "column": 1, "direction": "desc"}
//
// Unknown command names and missing or mistyped fields are rejected
// before anything reaches the engine.
package command

// Package engine ties one table, its edit history, and snapshot
// publication together into a single editing session facade.
//
// Commands flow in through Apply, which executes them against the owned
// table and records them for undo. Undo and Redo replay history. After
// every successful apply, undo, or redo the engine publishes a deep
// snapshot of the table to its registered listeners so the rendering
// layer stays synchronized with the model.
//
// The engine serializes its callers with a mutex; it has no internal
// parallelism, and listeners run synchronously on the calling goroutine.
package engine

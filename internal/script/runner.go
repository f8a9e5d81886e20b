package script

import (
	"errors"
	"fmt"
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/tablo-edit/tablo/internal/engine"
	"github.com/tablo-edit/tablo/internal/engine/history"
)

// Errors returned by Run.
var (
	// ErrNoTransform indicates the script defines no transform function.
	ErrNoTransform = errors.New("script defines no transform function")

	// ErrBadResult indicates transform returned something other than a
	// string, a number, or nil.
	ErrBadResult = errors.New("transform must return a string, a number, or nil")
)

// Run executes a transform script against the engine's current table
// and applies the collected changes as one bulk edit. It returns the
// number of cells changed.
//
// The script observes a snapshot: transforms see pre-edit values even
// for cells an earlier call already changed.
func Run(eng *engine.Engine, src string) (int, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	if err := openSafeLibs(L); err != nil {
		return 0, fmt.Errorf("script init: %w", err)
	}
	if err := L.DoString(src); err != nil {
		return 0, fmt.Errorf("script load: %w", err)
	}

	fn, ok := L.GetGlobal("transform").(*lua.LFunction)
	if !ok {
		return 0, ErrNoTransform
	}

	snap := eng.Snapshot()
	var updates []history.CellUpdate
	for r, row := range snap.Rows {
		for c, value := range row {
			result, err := callTransform(L, fn, r, c, snap.Headers[c], value)
			if err != nil {
				return 0, err
			}
			next, changed, err := resultValue(result, value)
			if err != nil {
				return 0, fmt.Errorf("cell (%d, %d): %w", r, c, err)
			}
			if changed {
				updates = append(updates, history.CellUpdate{Row: r, Col: c, Value: next})
			}
		}
	}

	if len(updates) == 0 {
		return 0, nil
	}
	if err := eng.Apply(history.NewBulkUpdateCommand(updates)); err != nil {
		return 0, fmt.Errorf("apply script changes: %w", err)
	}
	return len(updates), nil
}

// openSafeLibs loads the side-effect-free standard libraries and strips
// the code loaders base brings along.
func openSafeLibs(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return err
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// callTransform invokes transform for one cell.
func callTransform(L *lua.LState, fn *lua.LFunction, row, col int, header, value string) (lua.LValue, error) {
	err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(row), lua.LNumber(col), lua.LString(header), lua.LString(value))
	if err != nil {
		return nil, fmt.Errorf("transform(%d, %d): %w", row, col, err)
	}
	result := L.Get(-1)
	L.Pop(1)
	return result, nil
}

// resultValue maps a transform return value onto the cell's next value.
func resultValue(result lua.LValue, current string) (string, bool, error) {
	switch v := result.(type) {
	case *lua.LNilType:
		return current, false, nil
	case lua.LString:
		s := string(v)
		return s, s != current, nil
	case lua.LNumber:
		s := strconv.FormatFloat(float64(v), 'f', -1, 64)
		return s, s != current, nil
	}
	return "", false, fmt.Errorf("%w, got %s", ErrBadResult, result.Type())
}

package command

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/tablo-edit/tablo/internal/engine/history"
)

// Errors returned by Decode.
var (
	// ErrUnknownCommand indicates a command name outside the closed set.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingField indicates a required field is absent or has the
	// wrong type.
	ErrMissingField = errors.New("missing or malformed field")
)

// Decode turns one inbound JSON message into an executable command.
func Decode(msg []byte) (history.Command, error) {
	name := gjson.GetBytes(msg, "command")
	if !name.Exists() {
		return nil, fmt.Errorf("command name: %w", ErrMissingField)
	}

	switch name.String() {
	case "updateCell":
		row, err := requireInt(msg, "row")
		if err != nil {
			return nil, err
		}
		col, err := requireInt(msg, "col")
		if err != nil {
			return nil, err
		}
		value, err := requireString(msg, "value")
		if err != nil {
			return nil, err
		}
		return history.NewUpdateCellCommand(row, col, value), nil

	case "bulkUpdateCells":
		updatesField := gjson.GetBytes(msg, "updates")
		if !updatesField.IsArray() {
			return nil, fmt.Errorf("updates: %w", ErrMissingField)
		}
		var updates []history.CellUpdate
		var badErr error
		updatesField.ForEach(func(_, u gjson.Result) bool {
			row := u.Get("row")
			col := u.Get("col")
			value := u.Get("value")
			if row.Type != gjson.Number || col.Type != gjson.Number || value.Type != gjson.String {
				badErr = fmt.Errorf("updates entry: %w", ErrMissingField)
				return false
			}
			updates = append(updates, history.CellUpdate{
				Row:   int(row.Int()),
				Col:   int(col.Int()),
				Value: value.String(),
			})
			return true
		})
		if badErr != nil {
			return nil, badErr
		}
		return history.NewBulkUpdateCommand(updates), nil

	case "updateHeader":
		col, err := requireInt(msg, "col")
		if err != nil {
			return nil, err
		}
		value, err := requireString(msg, "value")
		if err != nil {
			return nil, err
		}
		return history.NewUpdateHeaderCommand(col, value), nil

	case "addRow":
		return history.NewAddRowCommand(optionalInt(msg, "index"), nil), nil

	case "deleteRows":
		indices, err := requireIntList(msg, "indices")
		if err != nil {
			return nil, err
		}
		return history.NewDeleteRowsCommand(indices), nil

	case "addColumn":
		header := gjson.GetBytes(msg, "header").String()
		return history.NewAddColumnCommand(optionalInt(msg, "index"), header), nil

	case "deleteColumns":
		indices, err := requireIntList(msg, "indices")
		if err != nil {
			return nil, err
		}
		return history.NewDeleteColumnsCommand(indices), nil

	case "sort":
		col, err := requireInt(msg, "column")
		if err != nil {
			return nil, err
		}
		dir, err := history.ParseSortDirection(gjson.GetBytes(msg, "direction").String())
		if err != nil {
			return nil, fmt.Errorf("direction: %w", ErrMissingField)
		}
		return history.NewSortCommand(col, dir), nil

	case "moveRow":
		from, err := requireInt(msg, "fromIndex")
		if err != nil {
			return nil, err
		}
		to, err := requireInt(msg, "toIndex")
		if err != nil {
			return nil, err
		}
		return history.NewMoveRowCommand(from, to), nil

	case "moveColumn":
		from, err := requireInt(msg, "fromIndex")
		if err != nil {
			return nil, err
		}
		to, err := requireInt(msg, "toIndex")
		if err != nil {
			return nil, err
		}
		return history.NewMoveColumnCommand(from, to), nil
	}

	return nil, fmt.Errorf("%q: %w", name.String(), ErrUnknownCommand)
}

// requireInt reads a mandatory integer field.
func requireInt(msg []byte, path string) (int, error) {
	field := gjson.GetBytes(msg, path)
	if field.Type != gjson.Number {
		return 0, fmt.Errorf("%s: %w", path, ErrMissingField)
	}
	return int(field.Int()), nil
}

// optionalInt reads an optional index field, returning -1 when absent.
func optionalInt(msg []byte, path string) int {
	field := gjson.GetBytes(msg, path)
	if field.Type != gjson.Number {
		return -1
	}
	return int(field.Int())
}

// requireString reads a mandatory string field.
func requireString(msg []byte, path string) (string, error) {
	field := gjson.GetBytes(msg, path)
	if field.Type != gjson.String {
		return "", fmt.Errorf("%s: %w", path, ErrMissingField)
	}
	return field.String(), nil
}

// requireIntList reads a mandatory array of integers.
func requireIntList(msg []byte, path string) ([]int, error) {
	field := gjson.GetBytes(msg, path)
	if !field.IsArray() {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingField)
	}
	var out []int
	var badErr error
	field.ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.Number {
			badErr = fmt.Errorf("%s entry: %w", path, ErrMissingField)
			return false
		}
		out = append(out, int(v.Int()))
		return true
	})
	if badErr != nil {
		return nil, badErr
	}
	return out, nil
}

package command

import (
	"strconv"
	"time"

	"github.com/tidwall/sjson"

	"github.com/tablo-edit/tablo/internal/diff"
	"github.com/tablo-edit/tablo/internal/engine"
)

// EncodeSnapshot serializes a table snapshot for outbound delivery.
func EncodeSnapshot(snap engine.Snapshot) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "seq", snap.Seq); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "time", snap.Time.Format(time.RFC3339Nano)); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "headers", snap.Headers); err != nil {
		return nil, err
	}
	rows := snap.Rows
	if rows == nil {
		rows = [][]string{}
	}
	if out, err = sjson.SetBytes(out, "rows", rows); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeGrid serializes an annotated reconciliation grid. Cell and
// column kinds go on the wire as their String names.
func EncodeGrid(grid *diff.Grid) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "hasChanges", grid.HasChanges()); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "columns", []byte(`[]`)); err != nil {
		return nil, err
	}
	for i, col := range grid.Columns {
		if out, err = setGridColumn(out, i, col); err != nil {
			return nil, err
		}
	}
	if out, err = sjson.SetRawBytes(out, "rows", []byte(`[]`)); err != nil {
		return nil, err
	}
	for i, row := range grid.Rows {
		if out, err = setGridRow(out, i, row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func setGridColumn(out []byte, i int, col diff.GridColumn) ([]byte, error) {
	base := "columns." + strconv.Itoa(i)
	var err error
	if out, err = sjson.SetBytes(out, base+".kind", col.Kind.String()); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, base+".header", col.Header); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, base+".oldIndex", col.OldIndex); err != nil {
		return nil, err
	}
	out, err = sjson.SetBytes(out, base+".newIndex", col.NewIndex)
	return out, err
}

func setGridRow(out []byte, i int, row diff.GridRow) ([]byte, error) {
	base := "rows." + strconv.Itoa(i)
	var err error
	if out, err = sjson.SetBytes(out, base+".kind", row.Kind.String()); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, base+".oldIndex", row.OldIndex); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, base+".newIndex", row.NewIndex); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, base+".cells", []byte(`[]`)); err != nil {
		return nil, err
	}
	for j, cell := range row.Cells {
		cellBase := base + ".cells." + strconv.Itoa(j)
		if out, err = sjson.SetBytes(out, cellBase+".kind", cell.Kind.String()); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, cellBase+".value", cell.Value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

package diff

import "github.com/tablo-edit/tablo/internal/table"

// RowKind classifies one entry of a row diff.
type RowKind uint8

const (
	// RowKept is a row present in both layouts with equal content.
	RowKept RowKind = iota

	// RowModified is a row present in both layouts whose cell values
	// changed but whose column count did not.
	RowModified

	// RowAdded is a row present only in the new layout.
	RowAdded

	// RowDeleted is a row present only in the old layout.
	RowDeleted
)

// String returns a human-readable name for the row kind.
func (k RowKind) String() string {
	switch k {
	case RowKept:
		return "kept"
	case RowModified:
		return "modified"
	case RowAdded:
		return "added"
	case RowDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// RowEntry is one row of a row diff. OldIndex is -1 for added rows and
// NewIndex is -1 for deleted rows. For deleted rows Line preserves the
// original serialized content so it can still be rendered; for all other
// kinds Line carries the new content.
type RowEntry struct {
	Kind     RowKind
	OldIndex int
	NewIndex int
	Line     string
}

// RowDiff is the ordered result of aligning old rows against new rows.
// Every old index appears in exactly one kept/modified/deleted entry;
// every new index appears in exactly one kept/modified/added entry.
type RowDiff struct {
	Entries     []RowEntry
	OldRowCount int
	NewRowCount int
}

// HasChanges reports whether any row was added, deleted, or modified.
func (d RowDiff) HasChanges() bool {
	for _, e := range d.Entries {
		if e.Kind != RowKept {
			return true
		}
	}
	return false
}

// ComputeRowDiff aligns old row identity lines against new ones with a
// Myers diff, then pairs adjacent delete/insert runs of equal column
// count into modified entries.
func ComputeRowDiff(oldLines, newLines []string) RowDiff {
	ops := myersDiff(oldLines, newLines)
	d := RowDiff{
		OldRowCount: len(oldLines),
		NewRowCount: len(newLines),
	}

	for k := 0; k < len(ops); {
		op := ops[k]
		if op.op == opEqual {
			d.Entries = append(d.Entries, RowEntry{
				Kind:     RowKept,
				OldIndex: op.oldIndex,
				NewIndex: op.newIndex,
				Line:     newLines[op.newIndex],
			})
			k++
			continue
		}

		// Collect the contiguous run of deletes, then inserts.
		var deletes, inserts []editOp
		for k < len(ops) && ops[k].op == opDelete {
			deletes = append(deletes, ops[k])
			k++
		}
		for k < len(ops) && ops[k].op == opInsert {
			inserts = append(inserts, ops[k])
			k++
		}

		// Pair positionally while the column counts still match; a row
		// whose width changed stays a delete+add.
		paired := 0
		for paired < len(deletes) && paired < len(inserts) {
			oldLine := oldLines[deletes[paired].oldIndex]
			newLine := newLines[inserts[paired].newIndex]
			if len(table.SplitKey(oldLine)) != len(table.SplitKey(newLine)) {
				break
			}
			d.Entries = append(d.Entries, RowEntry{
				Kind:     RowModified,
				OldIndex: deletes[paired].oldIndex,
				NewIndex: inserts[paired].newIndex,
				Line:     newLine,
			})
			paired++
		}
		for _, del := range deletes[paired:] {
			d.Entries = append(d.Entries, RowEntry{
				Kind:     RowDeleted,
				OldIndex: del.oldIndex,
				NewIndex: -1,
				Line:     oldLines[del.oldIndex],
			})
		}
		for _, ins := range inserts[paired:] {
			d.Entries = append(d.Entries, RowEntry{
				Kind:     RowAdded,
				OldIndex: -1,
				NewIndex: ins.newIndex,
				Line:     newLines[ins.newIndex],
			})
		}
	}
	return d
}

// opType indicates the type of a diff edit.
type opType uint8

const (
	opEqual opType = iota
	opInsert
	opDelete
)

// editOp is a single edit in the diff script.
type editOp struct {
	op       opType
	oldIndex int
	newIndex int
}

// myersDiff implements the Myers diff algorithm over two line slices,
// returning the edit script in order.
func myersDiff(oldLines, newLines []string) []editOp {
	n := len(oldLines)
	m := len(newLines)

	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		ops := make([]editOp, m)
		for i := 0; i < m; i++ {
			ops[i] = editOp{op: opInsert, newIndex: i}
		}
		return ops
	}
	if m == 0 {
		ops := make([]editOp, n)
		for i := 0; i < n; i++ {
			ops[i] = editOp{op: opDelete, oldIndex: i}
		}
		return ops
	}

	maxD := n + m
	offset := maxD
	v := make([]int, 2*maxD+1)
	v[offset+1] = 0

	var trace [][]int

outer:
	for d := 0; d <= maxD; d++ {
		vCopy := make([]int, len(v))
		copy(vCopy, v)
		trace = append(trace, vCopy)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k

			for x < n && y < m && oldLines[x] == newLines[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				vFinal := make([]int, len(v))
				copy(vFinal, v)
				trace = append(trace, vFinal)
				break outer
			}
		}
	}

	return backtrack(trace, n, m, offset)
}

// backtrack reconstructs the edit script from the forward-pass trace.
func backtrack(trace [][]int, n, m, offset int) []editOp {
	if len(trace) == 0 {
		return nil
	}

	x, y := n, m
	var ops []editOp

	for d := len(trace) - 2; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, editOp{op: opEqual, oldIndex: x, newIndex: y})
		}
		if d > 0 {
			if x > prevX {
				x--
				ops = append(ops, editOp{op: opDelete, oldIndex: x})
			} else if y > prevY {
				y--
				ops = append(ops, editOp{op: opInsert, newIndex: y})
			}
		}
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

package diff

// ColumnDiff is the index-level mapping between an old and a new header
// layout. AddedColumns index into the new layout, DeletedColumns into
// the old one. The counts always satisfy
// NewColumnCount = OldColumnCount - len(DeletedColumns) + len(AddedColumns).
type ColumnDiff struct {
	OldColumnCount int
	NewColumnCount int

	// AddedColumns are new-layout indices with no old counterpart,
	// ascending.
	AddedColumns []int

	// DeletedColumns are old-layout indices with no new counterpart,
	// ascending.
	DeletedColumns []int

	// OldHeaders is the old layout's header sequence, retained so
	// deleted-column content can still be rendered.
	OldHeaders []string

	// Ambiguous reports that duplicate header names made the alignment
	// depend on the nearest-position tie-break.
	Ambiguous bool

	// pairs are the matched (old, new) index pairs, ascending in both
	// coordinates. The reconciler walks them to interleave deleted and
	// added columns in display order.
	pairs [][2]int
}

// ColumnAdded reports whether a new-layout index is an added column.
func (d ColumnDiff) ColumnAdded(newIdx int) bool {
	for _, i := range d.AddedColumns {
		if i == newIdx {
			return true
		}
	}
	return false
}

// ColumnDeleted reports whether an old-layout index is a deleted column.
func (d ColumnDiff) ColumnDeleted(oldIdx int) bool {
	for _, i := range d.DeletedColumns {
		if i == oldIdx {
			return true
		}
	}
	return false
}

// HasChanges reports whether any column was added or deleted.
func (d ColumnDiff) HasChanges() bool {
	return len(d.AddedColumns) > 0 || len(d.DeletedColumns) > 0
}

// ComputeColumnDiff aligns an old header sequence against a new one.
// Matching is an order-preserving LCS over header text; with duplicate
// header names, ties resolve to the nearest unmatched position.
func ComputeColumnDiff(oldHeaders, newHeaders []string) ColumnDiff {
	n := len(oldHeaders)
	m := len(newHeaders)

	d := ColumnDiff{
		OldColumnCount: n,
		NewColumnCount: m,
		OldHeaders:     append([]string(nil), oldHeaders...),
		Ambiguous:      hasDuplicateOverlap(oldHeaders, newHeaders),
	}

	// Suffix LCS table: lcs[i][j] is the LCS length of
	// oldHeaders[i:] and newHeaders[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldHeaders[i] == newHeaders[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	// Forward scan, taking every match that lies on an optimal path as
	// soon as it appears. With duplicate header names this pairs the
	// nearest unmatched positions.
	matchedOld := make([]bool, n)
	matchedNew := make([]bool, m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case oldHeaders[i] == newHeaders[j] && lcs[i][j] == lcs[i+1][j+1]+1:
			matchedOld[i] = true
			matchedNew[j] = true
			d.pairs = append(d.pairs, [2]int{i, j})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			i++
		default:
			j++
		}
	}

	for idx, ok := range matchedOld {
		if !ok {
			d.DeletedColumns = append(d.DeletedColumns, idx)
		}
	}
	for idx, ok := range matchedNew {
		if !ok {
			d.AddedColumns = append(d.AddedColumns, idx)
		}
	}
	return d
}

// hasDuplicateOverlap reports whether a header name occurs more than
// once on either side while also appearing on the other side, which is
// the only situation where the tie-break rule can influence the result.
func hasDuplicateOverlap(oldHeaders, newHeaders []string) bool {
	oldCount := make(map[string]int, len(oldHeaders))
	for _, h := range oldHeaders {
		oldCount[h]++
	}
	newCount := make(map[string]int, len(newHeaders))
	for _, h := range newHeaders {
		newCount[h]++
	}
	for h, c := range oldCount {
		if newCount[h] > 0 && (c > 1 || newCount[h] > 1) {
			return true
		}
	}
	return false
}

package diff

import (
	"testing"

	"github.com/tablo-edit/tablo/internal/table"
)

func keys(rows ...[]string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = table.JoinKey(r)
	}
	return out
}

func kindsOf(d RowDiff) []RowKind {
	out := make([]RowKind, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.Kind
	}
	return out
}

func TestComputeRowDiffKinds(t *testing.T) {
	tests := []struct {
		name     string
		oldLines []string
		newLines []string
		want     []RowKind
	}{
		{
			name:     "identical",
			oldLines: []string{"a|1", "b|2"},
			newLines: []string{"a|1", "b|2"},
			want:     []RowKind{RowKept, RowKept},
		},
		{
			name:     "append",
			oldLines: []string{"a|1"},
			newLines: []string{"a|1", "b|2"},
			want:     []RowKind{RowKept, RowAdded},
		},
		{
			name:     "insert in middle",
			oldLines: []string{"a|1", "c|3"},
			newLines: []string{"a|1", "b|2", "c|3"},
			want:     []RowKind{RowKept, RowAdded, RowKept},
		},
		{
			name:     "delete in middle",
			oldLines: []string{"a|1", "b|2", "c|3"},
			newLines: []string{"a|1", "c|3"},
			want:     []RowKind{RowKept, RowDeleted, RowKept},
		},
		{
			name:     "edit keeps identity",
			oldLines: []string{"a|1", "b|2", "c|3"},
			newLines: []string{"a|1", "b|99", "c|3"},
			want:     []RowKind{RowKept, RowModified, RowKept},
		},
		{
			name:     "width change is delete plus add",
			oldLines: []string{"a|1", "b|2"},
			newLines: []string{"a|1", "b|2|extra"},
			want:     []RowKind{RowKept, RowDeleted, RowAdded},
		},
		{
			name:     "all added",
			oldLines: nil,
			newLines: []string{"a|1", "b|2"},
			want:     []RowKind{RowAdded, RowAdded},
		},
		{
			name:     "all deleted",
			oldLines: []string{"a|1", "b|2"},
			newLines: nil,
			want:     []RowKind{RowDeleted, RowDeleted},
		},
		{
			name:     "empty both",
			oldLines: nil,
			newLines: nil,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ComputeRowDiff(tt.oldLines, tt.newLines)
			got := kindsOf(d)
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("kinds = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRowDiffPartition(t *testing.T) {
	oldLines := keys(
		[]string{"a", "1"}, []string{"b", "2"}, []string{"c", "3"}, []string{"d", "4"},
	)
	newLines := keys(
		[]string{"b", "2"}, []string{"x", "9"}, []string{"c", "30"}, []string{"d", "4"}, []string{"e", "5"},
	)
	d := ComputeRowDiff(oldLines, newLines)

	oldSeen := make(map[int]int)
	newSeen := make(map[int]int)
	for _, e := range d.Entries {
		switch e.Kind {
		case RowKept, RowModified:
			oldSeen[e.OldIndex]++
			newSeen[e.NewIndex]++
		case RowDeleted:
			oldSeen[e.OldIndex]++
			if e.NewIndex != -1 {
				t.Errorf("deleted entry has NewIndex %d", e.NewIndex)
			}
		case RowAdded:
			newSeen[e.NewIndex]++
			if e.OldIndex != -1 {
				t.Errorf("added entry has OldIndex %d", e.OldIndex)
			}
		}
	}
	for i := 0; i < len(oldLines); i++ {
		if oldSeen[i] != 1 {
			t.Errorf("old index %d appears %d times, want exactly once", i, oldSeen[i])
		}
	}
	for i := 0; i < len(newLines); i++ {
		if newSeen[i] != 1 {
			t.Errorf("new index %d appears %d times, want exactly once", i, newSeen[i])
		}
	}
}

func TestRowDiffDeletedPreservesContent(t *testing.T) {
	oldLines := []string{"a|1", "gone|2", "c|3"}
	newLines := []string{"a|1", "c|3"}
	d := ComputeRowDiff(oldLines, newLines)
	var deleted *RowEntry
	for i := range d.Entries {
		if d.Entries[i].Kind == RowDeleted {
			deleted = &d.Entries[i]
		}
	}
	if deleted == nil {
		t.Fatal("no deleted entry")
	}
	if deleted.Line != "gone|2" {
		t.Errorf("deleted line = %q, want original content", deleted.Line)
	}
	if deleted.OldIndex != 1 {
		t.Errorf("deleted OldIndex = %d, want 1", deleted.OldIndex)
	}
}

func TestRowDiffHasChanges(t *testing.T) {
	same := ComputeRowDiff([]string{"a|1"}, []string{"a|1"})
	if same.HasChanges() {
		t.Error("identical rows reported changes")
	}
	changed := ComputeRowDiff([]string{"a|1"}, []string{"a|2"})
	if !changed.HasChanges() {
		t.Error("modified row not reported as change")
	}
}

func TestRowDiffMovedRow(t *testing.T) {
	// Myers treats a move as delete at one place and add at another;
	// identity (content equality) keeps the untouched rows kept.
	oldLines := []string{"a|1", "b|2", "c|3"}
	newLines := []string{"b|2", "c|3", "a|1"}
	d := ComputeRowDiff(oldLines, newLines)
	kept := 0
	for _, e := range d.Entries {
		if e.Kind == RowKept {
			kept++
		}
	}
	if kept != 2 {
		t.Errorf("kept = %d, want 2", kept)
	}
}

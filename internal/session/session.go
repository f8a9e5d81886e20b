package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tablo-edit/tablo/internal/config"
	"github.com/tablo-edit/tablo/internal/diff"
	"github.com/tablo-edit/tablo/internal/engine"
	"github.com/tablo-edit/tablo/internal/markdown"
	"github.com/tablo-edit/tablo/internal/table"
)

// Errors returned by Session operations.
var (
	// ErrRevisionNotFound indicates an unknown revision ID.
	ErrRevisionNotFound = errors.New("revision not found")
)

// Revision is one committed point-in-time copy of the table.
type Revision struct {
	ID    string
	Name  string
	Taken time.Time

	snapshot engine.Snapshot
}

// Session is a live editing session over one document.
type Session struct {
	mu sync.Mutex

	path string
	cfg  config.Config
	eng  *engine.Engine

	// Layout of the table inside the document, preserved for write-back.
	alignments []markdown.Alignment

	// Revisions in commit order, oldest first, bounded by
	// cfg.Session.MaxRevisions.
	revisions []Revision
}

// Open reads the document at path and starts a session on its first
// table.
func Open(path string, cfg config.Config) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	pt, err := markdown.ParseFirst(string(data))
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", path, err)
	}
	return &Session{
		path: path,
		cfg:  cfg,
		eng: engine.New(
			engine.WithTable(pt.Table),
			engine.WithMaxUndoEntries(cfg.History.MaxEntries),
		),
		alignments: pt.Alignments,
	}, nil
}

// Path returns the document path.
func (s *Session) Path() string { return s.path }

// Engine returns the session's edit engine. Reload swaps the engine, so
// callers holding one across a reload keep editing the stale table.
func (s *Session) Engine() *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng
}

// Reload re-parses the document and replaces the engine. Edit history
// does not survive a reload; committed revisions do.
func (s *Session) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reload session: %w", err)
	}
	pt, err := markdown.ParseFirst(string(data))
	if err != nil {
		return fmt.Errorf("reload session %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng = engine.New(
		engine.WithTable(pt.Table),
		engine.WithMaxUndoEntries(s.cfg.History.MaxEntries),
	)
	s.alignments = pt.Alignments
	return nil
}

// Save renders the current table back into the document, preserving
// surrounding prose and column alignments.
func (s *Session) Save() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	tbl := s.eng.Table()
	alignments := s.alignments
	s.mu.Unlock()

	out, err := spliceFirstTable(string(data), tbl, alignments, s.renderOptions())
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Commit stores the current table as a named revision and returns it.
// The oldest revision is evicted once the store is full.
func (s *Session) Commit(name string) Revision {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev := Revision{
		ID:       uuid.NewString(),
		Name:     name,
		Taken:    time.Now(),
		snapshot: s.eng.Snapshot(),
	}
	s.revisions = append(s.revisions, rev)
	if max := s.cfg.Session.MaxRevisions; max > 0 && len(s.revisions) > max {
		s.revisions = s.revisions[len(s.revisions)-max:]
	}
	return rev
}

// Revisions returns the stored revisions, oldest first.
func (s *Session) Revisions() []Revision {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Revision, len(s.revisions))
	copy(out, s.revisions)
	return out
}

// Revision looks up a stored revision by ID.
func (s *Session) Revision(id string) (Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rev := range s.revisions {
		if rev.ID == id {
			return rev, nil
		}
	}
	return Revision{}, fmt.Errorf("%s: %w", id, ErrRevisionNotFound)
}

// DiffAgainst reconciles the current table against a stored revision,
// treating the revision as old and the current table as new.
func (s *Session) DiffAgainst(id string) (*diff.Grid, error) {
	rev, err := s.Revision(id)
	if err != nil {
		return nil, err
	}

	cur := s.Engine().Snapshot()
	current, err := table.New(cur.Headers, cur.Rows)
	if err != nil {
		return nil, err
	}

	cd := diff.ComputeColumnDiff(rev.snapshot.Headers, cur.Headers)
	rd := diff.ComputeRowDiff(rev.snapshot.RowKeys(), cur.RowKeys())
	return diff.Reconcile(current, cd, rd)
}

// renderOptions maps the render config onto the Markdown renderer.
func (s *Session) renderOptions() markdown.RenderOptions {
	return markdown.RenderOptions{MinColumnWidth: s.cfg.Render.MinColumnWidth}
}

// spliceFirstTable replaces the first table region of src with a fresh
// rendering of tbl.
func spliceFirstTable(src string, tbl *table.Table, alignments []markdown.Alignment, opts markdown.RenderOptions) (string, error) {
	pt, err := markdown.ParseFirst(src)
	if err != nil {
		return "", err
	}
	lines := strings.Split(src, "\n")
	rendered := strings.Split(markdown.Render(tbl, alignments, opts), "\n")

	out := make([]string, 0, len(lines)-(pt.EndLine-pt.StartLine)+len(rendered))
	out = append(out, lines[:pt.StartLine]...)
	out = append(out, rendered...)
	out = append(out, lines[pt.EndLine:]...)
	return strings.Join(out, "\n"), nil
}

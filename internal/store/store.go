// Package store persists page and component metadata in DuckDB. Values
// read back from it are untrusted inputs to the path guards: the store is
// the upstream producer, not a trust boundary.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"saferoot/internal/audit"
)

// ErrNotFound marks a missing page or component.
var ErrNotFound = errors.New("store: not found")

// Page is a published page row.
type Page struct {
	ID        string
	Slug      string
	Title     string
	CreatedAt time.Time
}

// Component is a content block on a page. FilePath and Template come back
// as raw strings; callers must pass them through pathguard before any
// filesystem use.
type Component struct {
	ID       string
	PageID   string
	Position int
	Type     string
	Template string
	FilePath string
	Text     string
}

// Store wraps a DuckDB connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: db path is required")
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for test helpers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// InsertPage creates a page and returns its id.
func (s *Store) InsertPage(ctx context.Context, slug, title string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (page_id, slug, title) VALUES (?, ?, ?)`,
		id, slug, title)
	if err != nil {
		return "", fmt.Errorf("insert page: %w", err)
	}
	return id, nil
}

// InsertComponent creates a component and returns its id.
func (s *Store) InsertComponent(ctx context.Context, c Component) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO components
		   (component_id, page_id, position, component_type, template, content_file_path, content_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, c.PageID, c.Position, c.Type, c.Template, nullable(c.FilePath), nullable(c.Text))
	if err != nil {
		return "", fmt.Errorf("insert component: %w", err)
	}
	return id, nil
}

// PageBySlug loads a page by its slug.
func (s *Store) PageBySlug(ctx context.Context, slug string) (Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT page_id, slug, title, created_at FROM pages WHERE slug = ?`, slug)
	var p Page
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Page{}, ErrNotFound
		}
		return Page{}, fmt.Errorf("load page %q: %w", slug, err)
	}
	return p, nil
}

// ComponentByID loads a single component.
func (s *Store) ComponentByID(ctx context.Context, id string) (Component, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT component_id, page_id, position, component_type, template,
		        coalesce(content_file_path, ''), coalesce(content_text, '')
		   FROM components WHERE component_id = ?`, id)
	var c Component
	err := row.Scan(&c.ID, &c.PageID, &c.Position, &c.Type, &c.Template, &c.FilePath, &c.Text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Component{}, ErrNotFound
		}
		return Component{}, fmt.Errorf("load component %q: %w", id, err)
	}
	return c, nil
}

// ComponentsForPage loads a page's components ordered by position.
func (s *Store) ComponentsForPage(ctx context.Context, pageID string) ([]Component, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT component_id, page_id, position, component_type, template,
		        coalesce(content_file_path, ''), coalesce(content_text, '')
		   FROM components WHERE page_id = ? ORDER BY position`, pageID)
	if err != nil {
		return nil, fmt.Errorf("load components for page %q: %w", pageID, err)
	}
	defer rows.Close()

	var out []Component
	for rows.Next() {
		var c Component
		if err := rows.Scan(&c.ID, &c.PageID, &c.Position, &c.Type, &c.Template, &c.FilePath, &c.Text); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}
	return out, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// RecordRejection persists an audit event.
func (s *Store) RecordRejection(ctx context.Context, event audit.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_rejections (event_id, source, raw_input, kind, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.Source, event.RawInput, event.Kind.String(), event.At)
	if err != nil {
		return fmt.Errorf("record rejection: %w", err)
	}
	return nil
}

// RejectionRecord is a persisted audit event, kind as its string code.
type RejectionRecord struct {
	ID         string
	Source     string
	RawInput   string
	Kind       string
	OccurredAt time.Time
}

// RecentRejections returns the newest audit events, most recent first.
func (s *Store) RecentRejections(ctx context.Context, limit int) ([]RejectionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, source, raw_input, kind, occurred_at
		   FROM audit_rejections ORDER BY occurred_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load rejections: %w", err)
	}
	defer rows.Close()

	var out []RejectionRecord
	for rows.Next() {
		var r RejectionRecord
		if err := rows.Scan(&r.ID, &r.Source, &r.RawInput, &r.Kind, &r.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rejections: %w", err)
	}
	return out, nil
}

// RejectionsSince returns audit events at or after a timestamp, oldest
// first, for tail-style consumers. The bound is inclusive so events that
// share the caller's watermark timestamp are not lost; callers dedup by
// event id.
func (s *Store) RejectionsSince(ctx context.Context, since time.Time, limit int) ([]RejectionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, source, raw_input, kind, occurred_at
		   FROM audit_rejections WHERE occurred_at >= ?
		  ORDER BY occurred_at ASC, event_id ASC LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("load rejections: %w", err)
	}
	defer rows.Close()

	var out []RejectionRecord
	for rows.Next() {
		var r RejectionRecord
		if err := rows.Scan(&r.ID, &r.Source, &r.RawInput, &r.Kind, &r.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rejections: %w", err)
	}
	return out, nil
}

// RejectionSink adapts the store to the audit trail. Insert failures are
// swallowed: auditing is fire-and-forget and must never fail a request.
func (s *Store) RejectionSink() audit.Sink {
	return audit.SinkFunc(func(event audit.Event) {
		_ = s.RecordRejection(context.Background(), event)
	})
}

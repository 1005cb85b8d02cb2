package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/conorfennell/flashquiz/internal/gitsource"
)

// Source types.
const (
	SourceLocal = "local"
	SourceGit   = "git"
)

// Source is a registered question pack location.
type Source struct {
	ID          int64
	Path        string
	Type        string
	LastScanned sql.NullTime
}

// ResolveSource returns the form path is stored under and its type. A git
// URL is kept verbatim unless a local directory of that name exists; any
// other path is made absolute so the same directory is registered once.
func ResolveSource(path string) (string, string, error) {
	if gitsource.IsGitURL(path) {
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			return path, SourceGit, nil
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve source path %s: %w", path, err)
	}
	return abs, SourceLocal, nil
}

// AddSource registers path and returns the stored source. added is false
// when the resolved path was already registered.
func (db *DB) AddSource(ctx context.Context, path string) (source *Source, added bool, err error) {
	resolved, sourceType, err := ResolveSource(path)
	if err != nil {
		return nil, false, err
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO sources (path, type) VALUES (?, ?)
		ON CONFLICT (path) DO NOTHING
	`, resolved, sourceType)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add source %s: %w", resolved, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read rows affected for source %s: %w", resolved, err)
	}

	source, err = db.SourceByPath(ctx, resolved)
	if err != nil {
		return nil, false, err
	}
	if source == nil {
		return nil, false, fmt.Errorf("source %s vanished after insert", resolved)
	}
	return source, n > 0, nil
}

// SourceByPath returns the source stored under path, or nil if there is none.
func (db *DB) SourceByPath(ctx context.Context, path string) (*Source, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, path, type, last_scanned FROM sources WHERE path = ?
	`, path)
	s, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find source %s: %w", path, err)
	}
	return &s, nil
}

// Sources returns every registered source in registration order.
func (db *DB) Sources(ctx context.Context) ([]Source, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, path, type, last_scanned FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// MarkScanned records when a source was last imported.
func (db *DB) MarkScanned(ctx context.Context, id int64, at time.Time) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE sources SET last_scanned = ? WHERE id = ?
	`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark source %d scanned: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to mark source %d scanned: %w", id, sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (Source, error) {
	var s Source
	err := row.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned)
	return s, err
}

package storage

import (
	"context"
	"fmt"

	"github.com/conorfennell/flashquiz/internal/domain"
)

// InsertUser appends a signup record and returns its row ID.
func (db *DB) InsertUser(ctx context.Context, user domain.User) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (name, email)
		VALUES (?, ?)
	`, user.Name, user.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user %s: %w", user.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for user %s: %w", user.Name, err)
	}
	return id, nil
}

// CountUsers returns the number of signup records.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

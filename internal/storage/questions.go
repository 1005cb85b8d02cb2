package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conorfennell/flashquiz/internal/domain"
	"github.com/conorfennell/flashquiz/internal/fingerprint"
)

// StoredQuestion is a question row together with its storage metadata.
type StoredQuestion struct {
	ID          int64
	Fingerprint string
	domain.Question
}

// SeedIfAbsent inserts every question whose prompt is not stored yet and
// reports how many rows were added. Questions with a known prompt are
// skipped, so repeated calls are no-ops.
func (db *DB) SeedIfAbsent(ctx context.Context, questions []domain.Question) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (topic, prompt, answer, option1, option2, option3, option4, fingerprint)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM questions WHERE prompt = ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, q := range questions {
		res, err := stmt.ExecContext(ctx,
			q.Topic,
			q.Prompt,
			q.Answer,
			q.Options[0],
			q.Options[1],
			q.Options[2],
			q.Options[3],
			fingerprint.Of(q),
			q.Prompt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert question %q: %w", q.Prompt, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected for %q: %w", q.Prompt, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return inserted, nil
}

// QuestionsForTopic returns every stored question for topic in storage order.
func (db *DB) QuestionsForTopic(ctx context.Context, topic string) ([]domain.Question, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT topic, prompt, answer, option1, option2, option3, option4
		FROM questions WHERE topic = ?
		ORDER BY id
	`, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for topic %s: %w", topic, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.Topic,
			&q.Prompt,
			&q.Answer,
			&q.Options[0],
			&q.Options[1],
			&q.Options[2],
			&q.Options[3],
		); err != nil {
			return nil, fmt.Errorf("failed to scan question row for topic %s: %w", topic, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions for topic %s: %w", topic, err)
	}
	return questions, nil
}

// Topics lists the distinct stored topics in the order they first appeared.
func (db *DB) Topics(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT topic FROM questions
		GROUP BY topic
		ORDER BY MIN(id)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// FindQuestionByPrompt retrieves a stored question by its exact prompt text.
func (db *DB) FindQuestionByPrompt(ctx context.Context, prompt string) (*StoredQuestion, error) {
	var sq StoredQuestion
	var fp sql.NullString
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, topic, prompt, answer, option1, option2, option3, option4, fingerprint
		FROM questions WHERE prompt = ?
		ORDER BY id LIMIT 1
	`, prompt)

	err := row.Scan(
		&sq.ID,
		&sq.Topic,
		&sq.Prompt,
		&sq.Answer,
		&sq.Options[0],
		&sq.Options[1],
		&sq.Options[2],
		&sq.Options[3],
		&fp,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Question not found
		}
		return nil, fmt.Errorf("failed to find question by prompt %q: %w", prompt, err)
	}
	sq.Fingerprint = fp.String
	if sq.Fingerprint == "" {
		sq.Fingerprint = fingerprint.Of(sq.Question)
	}
	return &sq, nil
}

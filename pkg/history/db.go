// Package history stores submitted form values in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

// DB handles submission persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the history database at the given path
func OpenDB(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	hdb := &DB{db: db}
	if err := hdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		field TEXT NOT NULL,
		selected_values TEXT NOT NULL,
		labels TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_field ON submissions(field);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Record inserts a submission and sets its ID. A zero CreatedAt is set to now.
func (d *DB) Record(ctx context.Context, s *model.Submission) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	values, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("encode values: %w", err)
	}
	labels, err := json.Marshal(s.Labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}

	result, err := d.db.ExecContext(ctx, `
		INSERT INTO submissions (field, selected_values, labels, created_at)
		VALUES (?, ?, ?, ?)
	`, s.Field, string(values), string(labels), s.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// Recent returns up to limit submissions, newest first. An empty field matches all.
func (d *DB) Recent(ctx context.Context, field string, limit int) ([]model.Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, field, selected_values, labels, created_at
		FROM submissions
		WHERE ? = '' OR field = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, field, field, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Submission
	for rows.Next() {
		var s model.Submission
		var values, labels string
		if err := rows.Scan(&s.ID, &s.Field, &values, &labels, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := decodeValues(values, &s.Values); err != nil {
			return nil, fmt.Errorf("submission %d: %w", s.ID, err)
		}
		if err := json.Unmarshal([]byte(labels), &s.Labels); err != nil {
			return nil, fmt.Errorf("submission %d: decode labels: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of stored submissions
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n)
	return n, err
}

// decodeValues restores normalized values so numbers come back as int64
func decodeValues(data string, out *[]model.Value) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}
	values := make([]model.Value, 0, len(raw))
	for _, r := range raw {
		if v, ok := model.NormalizeValue(r); ok {
			values = append(values, v)
			continue
		}
		values = append(values, r)
	}
	*out = values
	return nil
}

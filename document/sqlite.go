/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const createCompetitionsTable = `CREATE TABLE IF NOT EXISTS competitions (
	name     TEXT PRIMARY KEY,
	body     TEXT NOT NULL,
	saved_at TEXT NOT NULL
)`

// SQLiteStore keeps one row per competition in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at dbPath.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrPersistence,
			err)
	}
	// a single connection serialises writers
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", ErrPersistence,
			err)
	}
	if _, err = db.ExecContext(ctx, createCompetitionsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create competitions table: %w",
			ErrPersistence, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, name string, doc *Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %v: %w", ErrPersistence, name, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO competitions (name, body, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at`,
		name, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: failed to save %v: %w", ErrPersistence, name, err)
	}

	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (*Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM competitions WHERE name = ?", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: competition %v not found", ErrPersistence,
			name)
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to load %v: %w", ErrPersistence, name,
			err)
	}

	doc, err := unmarshal([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}

	return doc, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM competitions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list competitions: %w",
			ErrPersistence, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return names, nil
}

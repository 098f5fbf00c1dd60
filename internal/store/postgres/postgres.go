// Package postgres implements store.Store on a single jsonb table. Documents
// keep the same field layout as the memory backend; filters use jsonb
// containment. Partial unique indexes on the submissions and reviews
// collections enforce the per-pair uniqueness invariants at the database.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yugash007/nexel-api/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    collection TEXT   NOT NULL,
    id         TEXT   NOT NULL,
    seq        BIGSERIAL,
    data       JSONB  NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE UNIQUE INDEX IF NOT EXISTS records_submissions_pair
    ON records ((data->>'assignment_id'), (data->>'student_id'))
    WHERE collection = 'submissions';
CREATE UNIQUE INDEX IF NOT EXISTS records_reviews_pair
    ON records ((data->>'course_id'), (data->>'student_id'))
    WHERE collection = 'reviews';
CREATE INDEX IF NOT EXISTS records_notifications_recipient
    ON records ((data->>'user_id'))
    WHERE collection = 'notifications';
`

const uniqueViolation = "23505"

// Store is the PostgreSQL-backed record store.
type Store struct {
	db *sqlx.DB
}

// New wraps the given database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the records table and indexes. Safe to call on every
// startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure records schema: %w", err)
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, collection, id string, out interface{}) error {
	const query = `SELECT data FROM records WHERE collection = $1 AND id = $2`
	var raw []byte
	err := s.db.GetContext(ctx, &raw, query, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// Find implements store.Store with jsonb containment matching. Results keep
// insertion order.
func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, out interface{}) error {
	match, err := json.Marshal(map[string]interface{}(filter))
	if err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}

	const query = `SELECT data FROM records WHERE collection = $1 AND data @> $2::jsonb ORDER BY seq`
	var rows [][]byte
	if err := s.db.SelectContext(ctx, &rows, query, collection, match); err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}

	docs := make([]json.RawMessage, 0, len(rows))
	for _, raw := range rows {
		docs = append(docs, json.RawMessage(raw))
	}
	combined, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s results: %w", collection, err)
	}
	if err := json.Unmarshal(combined, out); err != nil {
		return fmt.Errorf("decode %s results: %w", collection, err)
	}
	return nil
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	const query = `INSERT INTO records (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update implements store.Store by merging fields into the stored document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	const query = `UPDATE records SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`
	result, err := s.db.ExecContext(ctx, query, collection, id, raw)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Append implements store.Store. A missing or null array field is treated as
// empty before the append.
func (s *Store) Append(ctx context.Context, collection, id, field string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	const query = `UPDATE records
        SET data = jsonb_set(data, ARRAY[$3], COALESCE(data->$3, '[]'::jsonb) || $4::jsonb)
        WHERE collection = $1 AND id = $2`
	result, err := s.db.ExecContext(ctx, query, collection, id, field, raw)
	if err != nil {
		return fmt.Errorf("append %s/%s.%s: %w", collection, id, field, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("append %s/%s.%s: %w", collection, id, field, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

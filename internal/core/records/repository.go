package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Repository stores personal records in the personal_records table
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open runclub database handle
func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: sqlx.NewDb(conn, "sqlite")}
}

// Submit stores r when it beats the current record of its category, and
// reports whether it did
func (r *Repository) Submit(ctx context.Context, rec Record) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current Record
	err = tx.GetContext(ctx, &current, `
		SELECT category, distance_meters, duration_seconds, achieved_at
		FROM personal_records WHERE category = ?
	`, rec.Category)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("read record %s: %w", rec.Category, err)
	case current.Pace() <= rec.Pace():
		return false, nil
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO personal_records (category, distance_meters, duration_seconds, achieved_at, recorded_at)
		VALUES (:category, :distance_meters, :duration_seconds, :achieved_at, CURRENT_TIMESTAMP)
		ON CONFLICT(category) DO UPDATE SET
			distance_meters = excluded.distance_meters,
			duration_seconds = excluded.duration_seconds,
			achieved_at = excluded.achieved_at,
			recorded_at = CURRENT_TIMESTAMP
	`, rec)
	if err != nil {
		return false, fmt.Errorf("save record %s: %w", rec.Category, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit record %s: %w", rec.Category, err)
	}
	return true, nil
}

// List returns every record, shortest distance first
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	var out []Record
	err := r.db.SelectContext(ctx, &out, `
		SELECT category, distance_meters, duration_seconds, achieved_at
		FROM personal_records
		ORDER BY distance_meters
	`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}

// Delete removes the record of category; a missing one is a no-op
func (r *Repository) Delete(ctx context.Context, category Category) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM personal_records WHERE category = ?`, category); err != nil {
		return fmt.Errorf("delete record %s: %w", category, err)
	}
	return nil
}

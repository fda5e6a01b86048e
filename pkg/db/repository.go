package db

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/krsacme/ansible-modules-extras/pkg/errors"
	_ "modernc.org/sqlite"
)

// Repository provides database operations for the invocation journal
type Repository struct {
	db *sql.DB
}

// NewRepository opens the journal at dbPath, creating the schema if needed
func NewRepository(dbPath string) (*Repository, error) {
	slog.Info("database_init", "db_path", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		slog.Error("database_open_failed", "db_path", dbPath, "error", err)
		return nil, errors.Wrap(err, "failed to open database")
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		slog.Error("database_schema_failed", "db_path", dbPath, "error", err)
		return nil, errors.Wrap(err, "failed to create schema")
	}

	slog.Info("database_ready", "db_path", dbPath)
	return &Repository{db: db}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create inserts a new invocation record, assigning an ID if it has none
func (r *Repository) Create(ctx context.Context, inv *Invocation) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	slog.Info("database_create_invocation", "invocation_id", inv.ID, "image", inv.Image, "outcome", inv.Outcome())

	query := `
		INSERT INTO invocations (id, image, state, upgrade, changed, failed, skipped, rc, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.Image, inv.State, inv.Upgrade,
		inv.Changed, inv.Failed, inv.Skipped, inv.RC, inv.Message)
	if err != nil {
		slog.Error("database_insert_failed", "invocation_id", inv.ID, "error", err)
		return errors.Wrap(err, "failed to insert invocation")
	}

	return nil
}

// Get retrieves an invocation by ID. It returns nil when there is none.
func (r *Repository) Get(ctx context.Context, id string) (*Invocation, error) {
	query := `
		SELECT id, image, state, upgrade, changed, failed, skipped, rc, message, created_at
		FROM invocations WHERE id = ?
	`
	inv, err := scanInvocation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		slog.Info("database_invocation_not_found", "invocation_id", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("database_query_failed", "invocation_id", id, "error", err)
		return nil, errors.Wrap(err, "failed to query invocation")
	}
	return inv, nil
}

// List returns the most recent invocations, newest first.
// A limit of zero or less returns every record.
func (r *Repository) List(ctx context.Context, limit int) ([]*Invocation, error) {
	query := `
		SELECT id, image, state, upgrade, changed, failed, skipped, rc, message, created_at
		FROM invocations ORDER BY seq DESC LIMIT ?
	`
	return r.list(ctx, query, limitArg(limit))
}

// ListByImage returns the most recent invocations for image, newest first.
func (r *Repository) ListByImage(ctx context.Context, image string, limit int) ([]*Invocation, error) {
	query := `
		SELECT id, image, state, upgrade, changed, failed, skipped, rc, message, created_at
		FROM invocations WHERE image = ? ORDER BY seq DESC LIMIT ?
	`
	return r.list(ctx, query, image, limitArg(limit))
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Invocation, error) {
	slog.Info("database_list_invocations")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("database_list_query_failed", "error", err)
		return nil, errors.Wrap(err, "failed to list invocations")
	}
	defer rows.Close()

	var invocations []*Invocation
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			slog.Error("database_scan_row_failed", "error", err)
			return nil, errors.Wrap(err, "failed to scan row")
		}
		invocations = append(invocations, inv)
	}

	if err := rows.Err(); err != nil {
		slog.Error("database_rows_error", "error", err)
		return nil, errors.Wrap(err, "rows error")
	}

	slog.Info("database_list_complete", "invocation_count", len(invocations))
	return invocations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvocation(s scanner) (*Invocation, error) {
	var inv Invocation
	var message sql.NullString

	err := s.Scan(
		&inv.ID, &inv.Image, &inv.State, &inv.Upgrade,
		&inv.Changed, &inv.Failed, &inv.Skipped, &inv.RC,
		&message, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}

	inv.Message = message.String
	return &inv, nil
}

// SQLite treats a negative LIMIT as unbounded
func limitArg(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

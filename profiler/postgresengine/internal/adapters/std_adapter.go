package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// stdConn is the part of *sql.DB and *sqlx.DB the StdAdapter needs.
type stdConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// StdAdapter implements DBAdapter on top of database/sql, used for both sql.DB and sqlx.DB.
type StdAdapter struct {
	db stdConn
}

// NewSQLAdapter creates a StdAdapter for a sql.DB.
func NewSQLAdapter(db *sql.DB) *StdAdapter {
	return &StdAdapter{db: db}
}

// NewSQLXAdapter creates a StdAdapter for a sqlx.DB.
func NewSQLXAdapter(db *sqlx.DB) *StdAdapter {
	return &StdAdapter{db: db}
}

// Query executes a query and returns wrapped rows.
func (s *StdAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Exec executes a statement and returns its result.
func (s *StdAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.db.ExecContext(ctx, query)
}

var _ DBAdapter = (*StdAdapter)(nil)
var _ DBRows = (*sql.Rows)(nil)

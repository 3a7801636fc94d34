package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/call-profiler-go/profiler/postgresengine/internal/adapters"
)

var errDatabaseDown = errors.New("database down")

// fakeDB records the statements it receives and answers with canned rows and results.
type fakeDB struct {
	queries      []string
	execs        []string
	rows         [][]any
	rowsAffected int64
	queryErr     error
	execErr      error
	scanErr      error
}

func (f *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.queries = append(f.queries, query)

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{rows: f.rows, pos: -1, scanErr: f.scanErr}, nil
}

func (f *fakeDB) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.execs = append(f.execs, query)

	if f.execErr != nil {
		return nil, f.execErr
	}

	return fakeResult{rowsAffected: f.rowsAffected}, nil
}

type fakeRows struct {
	rows    [][]any
	pos     int
	scanErr error
	closed  bool
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}

	row := r.rows[r.pos]
	if len(row) != len(dest) {
		return fmt.Errorf("expected %d columns, got %d", len(dest), len(row))
	}

	for i, target := range dest {
		switch typed := target.(type) {
		case *string:
			*typed = row[i].(string)
		case *int64:
			*typed = row[i].(int64)
		default:
			return fmt.Errorf("unsupported scan target %T", target)
		}
	}

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

func givenSinkWithFakeDB(db *fakeDB, options ...Option) Sink {
	sink, err := newSink(db, options...)
	if err != nil {
		panic(err)
	}

	return sink
}

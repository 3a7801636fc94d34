package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
	"github.com/AntonStoeckl/call-profiler-go/profiler/postgresengine/internal/adapters"
)

const (
	defaultTableName = "profiler_records"
	dialectPostgres  = "postgres"
	colWindowID      = "window_id"
	colRecordSeq     = "record_seq"
	colName          = "name"
	colOrigin        = "origin"
	colDescription   = "description"
	colStartNS       = "start_ns"
	colEndNS         = "end_ns"
	colDurationNS    = "duration_ns"
)

const createTableStatement = `CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	window_id UUID NOT NULL,
	record_seq BIGINT NOT NULL,
	name TEXT NOT NULL,
	origin TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	start_ns BIGINT NOT NULL,
	end_ns BIGINT NOT NULL,
	duration_ns BIGINT NOT NULL,
	exported_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (window_id, record_seq)
)`

var ErrNilWindowID = errors.New("nil window id supplied")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrCreatingTableFailed = errors.New("creating records table failed")
var ErrExportingRecordsFailed = errors.New("exporting records failed")
var ErrLoadingRecordsFailed = errors.New("loading records failed")
var ErrDeletingWindowFailed = errors.New("deleting window failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrBuildingRecordFailed = errors.New("building event record from db row failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

type sqlQueryString = string

// WindowedSource is a record source that identifies its recording window, like memoryengine.Recorder.
type WindowedSource interface {
	WindowID() uuid.UUID
	AllRecords() profiler.EventRecords
}

// Sink persists the records of recording windows into a PostgreSQL table.
type Sink struct {
	db               adapters.DBAdapter
	tableName        string
	logger           profiler.Logger
	contextualLogger profiler.ContextualLogger
	metricsCollector profiler.MetricsCollector
	tracingCollector profiler.TracingCollector
}

type queryResultRow struct {
	name        string
	origin      string
	description string
	startNS     int64
	endNS       int64
}

// NewSinkFromPGXPool creates a new Sink using a pgx Pool with optional configuration.
func NewSinkFromPGXPool(db *pgxpool.Pool, options ...Option) (Sink, error) {
	if db == nil {
		return Sink{}, ErrNilDatabaseConnection
	}

	return newSink(adapters.NewPGXAdapter(db), options...)
}

// NewSinkFromSQLDB creates a new Sink using a sql.DB with optional configuration.
func NewSinkFromSQLDB(db *sql.DB, options ...Option) (Sink, error) {
	if db == nil {
		return Sink{}, ErrNilDatabaseConnection
	}

	return newSink(adapters.NewSQLAdapter(db), options...)
}

// NewSinkFromSQLX creates a new Sink using a sqlx.DB with optional configuration.
func NewSinkFromSQLX(db *sqlx.DB, options ...Option) (Sink, error) {
	if db == nil {
		return Sink{}, ErrNilDatabaseConnection
	}

	return newSink(adapters.NewSQLXAdapter(db), options...)
}

func newSink(db adapters.DBAdapter, options ...Option) (Sink, error) {
	s := Sink{
		db:        db,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Sink{}, err
		}
	}

	return s, nil
}

// TableName returns the name of the records table.
func (s Sink) TableName() string {
	return s.tableName
}

// CreateTable creates the records table if it does not exist yet.
func (s Sink) CreateTable(ctx context.Context) error {
	ctx, observation := s.startOperation(ctx, operationCreateTable, nil)

	if _, _, err := s.exec(ctx, s.buildCreateTableStatement(), operationCreateTable); err != nil {
		observation.failed(errorTypeDatabaseExec, err)
		return errors.Join(ErrCreatingTableFailed, err)
	}

	observation.succeeded(0)

	return nil
}

// ExportSnapshot exports the current snapshot of the source under the source's window id.
func (s Sink) ExportSnapshot(ctx context.Context, source WindowedSource) (int64, error) {
	return s.Export(ctx, source.WindowID(), source.AllRecords())
}

// Export writes the records of a window in their given order and returns how many rows were inserted.
// The position in records is the record's sequence number within the window, starting at 1,
// so exporting a grown snapshot of the same window again only inserts the new records.
func (s Sink) Export(ctx context.Context, windowID uuid.UUID, records profiler.EventRecords) (int64, error) {
	if windowID == uuid.Nil {
		return 0, ErrNilWindowID
	}

	if len(records) == 0 {
		return 0, nil
	}

	ctx, observation := s.startOperation(ctx, operationExport, map[string]string{
		spanAttrWindowID:    windowID.String(),
		spanAttrRecordCount: fmt.Sprintf("%d", len(records)),
	})

	sqlQuery, buildErr := s.buildInsertQuery(windowID, records)
	if buildErr != nil {
		s.logError(logMsgBuildInsertQueryFailed, buildErr)
		observation.failed(errorTypeBuildQuery, buildErr)

		return 0, buildErr
	}

	rowsAffected, duration, execErr := s.exec(ctx, sqlQuery, operationExport)
	if execErr != nil {
		observation.failed(errorTypeDatabaseExec, execErr)
		return 0, errors.Join(ErrExportingRecordsFailed, execErr)
	}

	if skipped := int64(len(records)) - rowsAffected; skipped > 0 {
		s.logOperation(ctx, logMsgRecordsSkipped, logAttrWindowID, windowID.String(), logAttrSkippedCount, skipped)
	}

	s.logOperation(ctx, logMsgRecordsExported,
		logAttrWindowID, windowID.String(),
		logAttrRecordCount, rowsAffected,
		logAttrDurationMS, toMilliseconds(duration))

	observation.succeeded(rowsAffected)

	return rowsAffected, nil
}

// Load reads the records of a window in sequence order, narrowed by the filter.
// Durations are recomputed from the stored start and end, so wrapped-around durations survive the round trip.
func (s Sink) Load(ctx context.Context, windowID uuid.UUID, filter profiler.RecordFilter) (profiler.EventRecords, error) {
	var empty profiler.EventRecords

	if windowID == uuid.Nil {
		return empty, ErrNilWindowID
	}

	ctx, observation := s.startOperation(ctx, operationLoad, map[string]string{spanAttrWindowID: windowID.String()})

	sqlQuery, buildErr := s.buildSelectQuery(windowID, filter)
	if buildErr != nil {
		s.logError(logMsgBuildSelectQueryFailed, buildErr)
		observation.failed(errorTypeBuildQuery, buildErr)

		return empty, buildErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, operationLoad, duration)

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		observation.failed(errorTypeDatabaseQuery, queryErr)

		return empty, errors.Join(ErrLoadingRecordsFailed, queryErr)
	}
	defer s.closeRows(rows)

	records, scanErr := s.processQueryResults(rows)
	if scanErr != nil {
		observation.failed(errorTypeRowScan, scanErr)
		return empty, scanErr
	}

	s.logOperation(ctx, logMsgRecordsLoaded,
		logAttrWindowID, windowID.String(),
		logAttrRecordCount, len(records),
		logAttrDurationMS, toMilliseconds(duration))

	observation.succeeded(int64(len(records)))

	return records, nil
}

// DeleteWindow removes all records of a window and returns how many rows were deleted.
func (s Sink) DeleteWindow(ctx context.Context, windowID uuid.UUID) (int64, error) {
	if windowID == uuid.Nil {
		return 0, ErrNilWindowID
	}

	ctx, observation := s.startOperation(ctx, operationDeleteWindow, map[string]string{spanAttrWindowID: windowID.String()})

	sqlQuery, buildErr := s.buildDeleteQuery(windowID)
	if buildErr != nil {
		s.logError(logMsgBuildDeleteQueryFailed, buildErr)
		observation.failed(errorTypeBuildQuery, buildErr)

		return 0, buildErr
	}

	rowsAffected, duration, execErr := s.exec(ctx, sqlQuery, operationDeleteWindow)
	if execErr != nil {
		observation.failed(errorTypeDatabaseExec, execErr)
		return 0, errors.Join(ErrDeletingWindowFailed, execErr)
	}

	s.logOperation(ctx, logMsgWindowDeleted,
		logAttrWindowID, windowID.String(),
		logAttrRecordCount, rowsAffected,
		logAttrDurationMS, toMilliseconds(duration))

	observation.succeeded(rowsAffected)

	return rowsAffected, nil
}

// exec runs a statement and returns the affected rows with timing information.
func (s Sink) exec(ctx context.Context, sqlQuery sqlQueryString, action string) (int64, time.Duration, error) {
	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, action, duration)

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, duration, execErr
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, duration, errors.Join(ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// closeRows closes database rows and logs any errors.
func (s Sink) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// processQueryResults converts database rows to event records.
func (s Sink) processQueryResults(rows adapters.DBRows) (profiler.EventRecords, error) {
	var empty profiler.EventRecords
	result := queryResultRow{}
	records := make(profiler.EventRecords, 0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.name, &result.origin, &result.description, &result.startNS, &result.endNS)
		if rowScanErr != nil {
			s.logError(logMsgScanRowFailed, rowScanErr)
			return empty, errors.Join(ErrScanningDBRowFailed, rowScanErr)
		}

		record, buildErr := profiler.BuildEventRecord(
			result.name,
			fromStoredNS(result.startNS),
			fromStoredNS(result.endNS),
			result.origin,
			result.description,
		)
		if buildErr != nil {
			s.logError(logMsgBuildRecordFailed, buildErr, logAttrName, result.name)
			return empty, errors.Join(ErrBuildingRecordFailed, buildErr)
		}

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logError(logMsgScanRowFailed, rowsErr)
		return empty, errors.Join(ErrScanningDBRowFailed, rowsErr)
	}

	return records, nil
}

func (s Sink) buildCreateTableStatement() sqlQueryString {
	return fmt.Sprintf(createTableStatement, pgx.Identifier{s.tableName}.Sanitize())
}

func (s Sink) buildInsertQuery(windowID uuid.UUID, records profiler.EventRecords) (sqlQueryString, error) {
	rows := make([]any, 0, len(records))

	for i, record := range records {
		rows = append(rows, goqu.Record{
			colWindowID:    windowID.String(),
			colRecordSeq:   i + 1,
			colName:        record.Name,
			colOrigin:      record.Origin,
			colDescription: record.Description,
			colStartNS:     toStoredNS(record.StartNS),
			colEndNS:       toStoredNS(record.EndNS),
			colDurationNS:  toStoredNS(record.DurationNS),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(rows...).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Sink) buildSelectQuery(windowID uuid.UUID, filter profiler.RecordFilter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(colName, colOrigin, colDescription, colStartNS, colEndNS).
		Where(goqu.C(colWindowID).Eq(windowID.String())).
		Order(goqu.I(colRecordSeq).Asc())

	selectStmt = s.addWhereClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Sink) buildDeleteQuery(windowID uuid.UUID) (sqlQueryString, error) {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(s.tableName).
		Where(goqu.C(colWindowID).Eq(windowID.String()))

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause narrows the select by the filter's names, origins and start span.
// Start spans are compared on the stored BIGINT values.
func (s Sink) addWhereClause(filter profiler.RecordFilter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	if names := filter.Names(); len(names) > 0 {
		selectStmt = selectStmt.Where(goqu.C(colName).In(names))
	}

	if origins := filter.Origins(); len(origins) > 0 {
		selectStmt = selectStmt.Where(goqu.C(colOrigin).In(origins))
	}

	if from, until, ok := filter.StartSpan(); ok {
		selectStmt = selectStmt.Where(goqu.C(colStartNS).Between(goqu.Range(toStoredNS(from), toStoredNS(until))))
	}

	return selectStmt
}

func toStoredNS(ns profiler.Nanoseconds) int64 {
	return int64(ns) //nolint:gosec // bit-for-bit storage in BIGINT
}

func fromStoredNS(stored int64) profiler.Nanoseconds {
	return profiler.Nanoseconds(stored) //nolint:gosec // restores the bit-for-bit stored value
}

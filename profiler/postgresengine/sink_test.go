package postgresengine

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

var testWindowID = uuid.MustParse("0190a6e2-7f3c-7c1e-8b5a-3d2f1e0c9b8a")

func givenRecords(t *testing.T) profiler.EventRecords {
	t.Helper()

	first, err := profiler.BuildEventRecord("SayHello", 100, 150, "greeter.go", "unary")
	require.NoError(t, err)

	wrapped, err := profiler.BuildEventRecord("SayBye", 10, 5, "greeter.go", "")
	require.NoError(t, err)

	return profiler.EventRecords{first, wrapped}
}

func Test_Export_BuildsIdempotentInsert(t *testing.T) {
	// setup
	db := &fakeDB{rowsAffected: 2}
	sink := givenSinkWithFakeDB(db)

	// act
	inserted, err := sink.Export(context.Background(), testWindowID, givenRecords(t))

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], `INSERT INTO "profiler_records"`)
	assert.Contains(t, db.execs[0], "ON CONFLICT DO NOTHING")
	assert.Contains(t, db.execs[0], "'"+testWindowID.String()+"'")
	assert.Contains(t, db.execs[0], "'SayHello'")
	assert.Contains(t, db.execs[0], "-5", "the wrapped duration is stored bit-for-bit")
}

func Test_Export_When_NothingToExport_SkipsTheDatabase(t *testing.T) {
	// setup
	db := &fakeDB{}
	sink := givenSinkWithFakeDB(db)

	// act
	inserted, err := sink.Export(context.Background(), testWindowID, nil)

	// assert
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Empty(t, db.execs)
}

func Test_Export_When_WindowIDIsNil_Fails(t *testing.T) {
	// setup
	sink := givenSinkWithFakeDB(&fakeDB{})

	// act
	_, err := sink.Export(context.Background(), uuid.Nil, givenRecords(t))

	// assert
	assert.ErrorIs(t, err, ErrNilWindowID)
}

func Test_Export_When_DatabaseFails_ReturnsWrappedError(t *testing.T) {
	// setup
	sink := givenSinkWithFakeDB(&fakeDB{execErr: errDatabaseDown})

	// act
	_, err := sink.Export(context.Background(), testWindowID, givenRecords(t))

	// assert
	assert.ErrorIs(t, err, ErrExportingRecordsFailed)
	assert.ErrorIs(t, err, errDatabaseDown)
}

func Test_ExportSnapshot_UsesTheWindowOfTheSource(t *testing.T) {
	// setup
	db := &fakeDB{rowsAffected: 2}
	sink := givenSinkWithFakeDB(db)
	source := windowedSourceStub{windowID: testWindowID, records: givenRecords(t)}

	// act
	inserted, err := sink.ExportSnapshot(context.Background(), source)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	assert.Contains(t, db.execs[0], testWindowID.String())
}

func Test_Load_RestoresRecordsBitForBit(t *testing.T) {
	// setup
	db := &fakeDB{rows: [][]any{
		{"SayHello", "greeter.go", "unary", int64(100), int64(150)},
		{"SayBye", "greeter.go", "", int64(10), int64(5)},
		{"Late", "", "", int64(-1), int64(-1)},
	}}
	sink := givenSinkWithFakeDB(db)

	// act
	records, err := sink.Load(context.Background(), testWindowID, profiler.BuildRecordFilter().MatchingAnyRecord())

	// assert
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, profiler.Nanoseconds(50), records[0].DurationNS)
	assert.Equal(t, "unary", records[0].Description)
	assert.Equal(t, profiler.Nanoseconds(math.MaxUint64-4), records[1].DurationNS)
	assert.True(t, records[1].ClockAnomaly())
	assert.Equal(t, profiler.Nanoseconds(math.MaxUint64), records[2].StartNS)
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], `FROM "profiler_records"`)
	assert.Contains(t, db.queries[0], `ORDER BY "record_seq" ASC`)
}

func Test_Load_AppliesTheFilter(t *testing.T) {
	// setup
	db := &fakeDB{}
	sink := givenSinkWithFakeDB(db, WithTableName("rpc_profile"))
	filter := profiler.BuildRecordFilter().
		AnyNameOf("SayHello", "SayBye").
		AnyOriginOf("grpc.client").
		StartedBetween(100, 200).
		Finalize()

	// act
	_, err := sink.Load(context.Background(), testWindowID, filter)

	// assert
	require.NoError(t, err)
	require.Len(t, db.queries, 1)
	query := db.queries[0]
	assert.Contains(t, query, `FROM "rpc_profile"`)
	assert.Contains(t, query, `"window_id" = '`+testWindowID.String()+`'`)
	assert.Contains(t, query, `"name" IN ('SayBye', 'SayHello')`)
	assert.Contains(t, query, `"origin" IN ('grpc.client')`)
	assert.Contains(t, query, `"start_ns" BETWEEN 100 AND 200`)
}

func Test_Load_When_ScanFails_ReturnsWrappedError(t *testing.T) {
	// setup
	sink := givenSinkWithFakeDB(&fakeDB{
		rows:    [][]any{{"SayHello", "", "", int64(1), int64(2)}},
		scanErr: errDatabaseDown,
	})

	// act
	records, err := sink.Load(context.Background(), testWindowID, profiler.RecordFilter{})

	// assert
	assert.ErrorIs(t, err, ErrScanningDBRowFailed)
	assert.Empty(t, records)
}

func Test_Load_When_QueryFails_ReturnsWrappedError(t *testing.T) {
	// setup
	sink := givenSinkWithFakeDB(&fakeDB{queryErr: errDatabaseDown})

	// act
	_, err := sink.Load(context.Background(), testWindowID, profiler.RecordFilter{})

	// assert
	assert.ErrorIs(t, err, ErrLoadingRecordsFailed)
	assert.ErrorIs(t, err, errDatabaseDown)
}

func Test_Load_When_StoredNameIsEmpty_Fails(t *testing.T) {
	// setup
	sink := givenSinkWithFakeDB(&fakeDB{rows: [][]any{{"", "", "", int64(1), int64(2)}}})

	// act
	_, err := sink.Load(context.Background(), testWindowID, profiler.RecordFilter{})

	// assert
	assert.ErrorIs(t, err, ErrBuildingRecordFailed)
	assert.ErrorIs(t, err, profiler.ErrEmptyRecordName)
}

func Test_DeleteWindow_ReturnsDeletedRows(t *testing.T) {
	// setup
	db := &fakeDB{rowsAffected: 7}
	sink := givenSinkWithFakeDB(db)

	// act
	deleted, err := sink.DeleteWindow(context.Background(), testWindowID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.Contains(t, db.execs[0], `DELETE FROM "profiler_records"`)
	assert.Contains(t, db.execs[0], testWindowID.String())
}

func Test_DeleteWindow_When_WindowIDIsNil_Fails(t *testing.T) {
	// act
	_, err := givenSinkWithFakeDB(&fakeDB{}).DeleteWindow(context.Background(), uuid.Nil)

	// assert
	assert.ErrorIs(t, err, ErrNilWindowID)
}

func Test_CreateTable_UsesTheQuotedTableName(t *testing.T) {
	// setup
	db := &fakeDB{}
	sink := givenSinkWithFakeDB(db, WithTableName("rpc_profile"))

	// act
	err := sink.CreateTable(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], `CREATE TABLE IF NOT EXISTS "rpc_profile"`)
	assert.Contains(t, db.execs[0], "UNIQUE (window_id, record_seq)")
}

func Test_CreateTable_When_DatabaseFails_ReturnsWrappedError(t *testing.T) {
	// act
	err := givenSinkWithFakeDB(&fakeDB{execErr: errDatabaseDown}).CreateTable(context.Background())

	// assert
	assert.ErrorIs(t, err, ErrCreatingTableFailed)
}

type windowedSourceStub struct {
	windowID uuid.UUID
	records  profiler.EventRecords
}

func (s windowedSourceStub) WindowID() uuid.UUID {
	return s.windowID
}

func (s windowedSourceStub) AllRecords() profiler.EventRecords {
	return s.records
}

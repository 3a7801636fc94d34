// Package postgresengine persists profiler records in a PostgreSQL table.
//
// A Sink exports the snapshot of a recording window and loads it back, optionally narrowed by a
// profiler.RecordFilter. Exports are idempotent per window: records already stored for the same
// window and sequence number are skipped.
//
// Three database connection types are supported:
//   - pgx.Pool via NewSinkFromPGXPool
//   - sql.DB via NewSinkFromSQLDB
//   - sqlx.DB via NewSinkFromSQLX
//
// Nanosecond timestamps are unsigned; they are stored bit-for-bit in BIGINT columns and restored on load.
//
// Example:
//
//	sink, err := postgresengine.NewSinkFromPGXPool(pool, postgresengine.WithTableName("rpc_profile"))
//	if err != nil {
//		return err
//	}
//
//	if err = sink.CreateTable(ctx); err != nil {
//		return err
//	}
//
//	exported, err := sink.ExportSnapshot(ctx, recorder)
package postgresengine

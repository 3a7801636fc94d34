// Package adapters provides the database adapters for the PostgreSQL record sink.
//
// The sink works with pgxpool.Pool, sql.DB and sqlx.DB. Each of them is wrapped into a DBAdapter,
// so the sink itself only builds SQL strings and scans rows.
package adapters

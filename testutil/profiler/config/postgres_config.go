package config

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const (
	maxConnections    = 10
	minConnections    = 2
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = time.Minute * 5
	healthCheckPeriod = time.Minute
	connectTimeout    = time.Second * 5
)

// PostgresPGXPoolTestConfig creates a pgxpool.Config for the test database.
func PostgresPGXPoolTestConfig() (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(PostgresTestDSN())
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = maxConnections
	dbConfig.MinConns = minConnections
	dbConfig.MaxConnLifetime = maxConnLifetime
	dbConfig.MaxConnIdleTime = maxConnIdleTime
	dbConfig.HealthCheckPeriod = healthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = connectTimeout

	return dbConfig, nil
}

// PostgresSQLDBTestConfig opens and pings a configured *sql.DB for the test database.
func PostgresSQLDBTestConfig(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(PostgresDriverName, PostgresTestDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxConnections)
	db.SetMaxIdleConns(minConnections)
	db.SetConnMaxLifetime(maxConnLifetime)
	db.SetConnMaxIdleTime(maxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// PostgresSQLXTestConfig opens and pings a configured *sqlx.DB for the test database.
func PostgresSQLXTestConfig(ctx context.Context) (*sqlx.DB, error) {
	db, err := PostgresSQLDBTestConfig(ctx)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, PostgresDriverName), nil
}

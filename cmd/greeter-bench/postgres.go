package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/call-profiler-go/profiler/postgresengine"
)

const postgresDriverName = "postgres"

// openSink connects with the configured adapter and returns the sink and a close function.
func openSink(ctx context.Context, cfg Config, obs observability) (postgresengine.Sink, func(), error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.PostgresTable),
		postgresengine.WithLogger(obs.logger),
		postgresengine.WithContextualLogger(obs.contextualLogger),
	}
	if obs.tracing != nil {
		options = append(options, postgresengine.WithTracing(obs.tracing))
	}

	switch cfg.PostgresAdapter {
	case adapterSQL:
		db, err := sql.Open(postgresDriverName, cfg.PostgresDSN)
		if err != nil {
			return postgresengine.Sink{}, nil, err
		}

		if pingErr := db.PingContext(ctx); pingErr != nil {
			return postgresengine.Sink{}, nil, errors.Join(pingErr, db.Close())
		}

		sink, err := postgresengine.NewSinkFromSQLDB(db, options...)

		return sink, func() { _ = db.Close() }, err

	case adapterSQLX:
		db, err := sqlx.ConnectContext(ctx, postgresDriverName, cfg.PostgresDSN)
		if err != nil {
			return postgresengine.Sink{}, nil, err
		}

		sink, err := postgresengine.NewSinkFromSQLX(db, options...)

		return sink, func() { _ = db.Close() }, err

	default:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return postgresengine.Sink{}, nil, err
		}

		sink, err := postgresengine.NewSinkFromPGXPool(pool, options...)

		return sink, pool.Close, err
	}
}

// exportToPostgres creates the records table if needed and exports the recorder's window.
func exportToPostgres(ctx context.Context, cfg Config, obs observability, source postgresengine.WindowedSource) error {
	sink, closeSink, err := openSink(ctx, cfg, obs)
	if err != nil {
		return err
	}
	defer closeSink()

	if err = sink.CreateTable(ctx); err != nil {
		return err
	}

	_, err = sink.ExportSnapshot(ctx, source)

	return err
}

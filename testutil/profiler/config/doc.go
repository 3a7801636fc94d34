// Package config provides database connection settings for tests of the PostgreSQL record sink.
//
// The DSN defaults to the local docker-compose database and can be overridden with PROFILER_POSTGRES_DSN.
package config

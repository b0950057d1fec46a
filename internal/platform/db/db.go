package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Options tune the connection pool.
type Options struct {
	MaxConns int
	MinConns int
}

// DB is the shared relational store. Postgres connections are pooled by
// pgxpool and exposed through database/sql; SQLite runs on a single
// connection so in-memory databases stay coherent.
type DB struct {
	*sql.DB
	Dialect string
	pool    *pgxpool.Pool
}

func Connect(ctx context.Context, databaseURL string, opts Options) (*DB, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return connectPostgres(ctx, databaseURL, opts)
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return OpenSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite:"))
	case strings.HasPrefix(databaseURL, "file:"):
		return OpenSQLite(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme")
	}
}

func connectPostgres(ctx context.Context, databaseURL string, opts Options) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns >= 0 {
		poolCfg.MinConns = int32(opts.MinConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: DialectPostgres, pool: pool}, nil
}

// OpenSQLite opens an embedded database at path (":memory:" for a throwaway
// one) with foreign keys enforced.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		path = ":memory:"
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return &DB{DB: sqlDB, Dialect: DialectSQLite}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.DB.PingContext(ctx)
}

func (d *DB) Close() error {
	err := d.DB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

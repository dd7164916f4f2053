package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
	chstore "weekly-sales-report/internal/storage/clickhouse"
	"weekly-sales-report/internal/storage/memory"
	"weekly-sales-report/internal/storage/migrations"
	mysqlstore "weekly-sales-report/internal/storage/mysql"
	pgstore "weekly-sales-report/internal/storage/postgres"
)

// Source provides the raw sales export.
type Source interface {
	// Load returns the export header and rows in input order.
	Load(ctx context.Context) (*domain.RawTable, error)
}

// Source kinds accepted by Open.
const (
	KindCSV        = "csv"
	KindPostgres   = "postgres"
	KindClickHouse = "clickhouse"
	KindMySQL      = "mysql"
)

// ErrUnknownSource is returned for an unsupported source kind.
var ErrUnknownSource = errors.New("unknown source")

// Config selects and locates a source.
type Config struct {
	Kind     string
	Location string // CSV path or DSN
	Table    string // staging table for database kinds
	Migrate  bool   // apply embedded DDL before use
}

// Open returns the configured source and a cleanup func releasing its connections.
func Open(ctx context.Context, cfg Config) (Source, func(), error) {
	switch strings.ToLower(cfg.Kind) {
	case KindCSV:
		return NewCSVSource(cfg.Location), func() {}, nil
	case KindFixtures:
		store := memory.NewSalesStore()
		if err := store.InsertRaw(ctx, Fixtures(time.Now().UTC())); err != nil {
			return nil, nil, fmt.Errorf("stage fixtures: %w", err)
		}
		return store, store.Close, nil
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// OpenStore connects to a database staging table, optionally migrating it first.
// The caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg Config) (storage.RawSalesStore, error) {
	table := cfg.Table
	if table == "" {
		table = storage.DefaultTable
	}

	switch strings.ToLower(cfg.Kind) {
	case KindPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Location)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		src, err := pgstore.NewSalesSource(pool, table)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return src, nil

	case KindClickHouse:
		var conn *chstore.Conn
		var err error
		if cfg.Migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, cfg.Location)
			if err != nil {
				return nil, fmt.Errorf("migrate clickhouse: %w", err)
			}
		} else {
			conn, err = chstore.NewConn(ctx, cfg.Location)
			if err != nil {
				return nil, err
			}
		}
		src, err := chstore.NewSalesSource(conn, table)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return src, nil

	case KindMySQL:
		db, err := mysqlstore.NewDB(ctx, cfg.Location)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := migrations.RunMySQLMigrations(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("migrate mysql: %w", err)
			}
		}
		src, err := mysqlstore.NewSalesSource(db, table)
		if err != nil {
			db.Close()
			return nil, err
		}
		return src, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Kind)
	}
}

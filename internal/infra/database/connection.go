package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // driver "sqlite"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Pool é o subconjunto do pgxpool.Pool que o repositório usa; pgxmock
// implementa a mesma interface nos testes.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store is a lead repository plus the lifecycle hooks the process needs.
type Store interface {
	entity.LeadRepositoryInterface
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}

// Open escolhe o backend pelo driver configurado e testa a conexão.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres, "":
		pool, err := NewPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return NewLeadRepository(pool), nil
	case DriverSQLite:
		db, err := NewSQLiteConnection(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLiteLeadRepository(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

// NewPool abre o pool do Postgres e faz o Ping
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return pool, nil
}

// NewSQLiteConnection abre o arquivo SQLite (ou ":memory:") para dev e testes.
func NewSQLiteConnection(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}

	// SQLite serializa escrita; uma conexão evita SQLITE_BUSY e mantém ":memory:" num só banco
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: ping")
	}

	return db, nil
}

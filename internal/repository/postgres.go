package repository

import (
	"atm-simulator/internal/utils"
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresBackend struct {
	db *pgxpool.Pool
}

func NewPostgresBackend(ctx context.Context, dbURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	if err := Migrate(pool); err != nil {
		pool.Close()
		return nil, err
	}
	utils.LogSuccess("PostgresBackend", "connected, schema up to date")
	return &PostgresBackend{db: pool}, nil
}

func Migrate(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Name() string {
	return "postgres"
}

func (b *PostgresBackend) Close() {
	b.db.Close()
}

func (b *PostgresBackend) Load(ctx context.Context) (map[string]string, error) {
	rows, err := b.db.Query(ctx, `SELECT key, value FROM atm_store`)
	if err != nil {
		return nil, fmt.Errorf("query atm_store: %w", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan atm_store: %w", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read atm_store: %w", err)
	}
	return data, nil
}

// Save replaces all rows in one transaction.
func (b *PostgresBackend) Save(ctx context.Context, data map[string]string) error {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM atm_store`); err != nil {
		return fmt.Errorf("clear atm_store: %w", err)
	}

	rows := make([][]any, 0, len(data))
	for k, v := range data {
		rows = append(rows, []any{k, v})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"atm_store"}, []string{"key", "value"}, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy atm_store: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

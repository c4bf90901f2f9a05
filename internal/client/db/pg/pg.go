package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Lina3386/financeflow/internal/client/db"
	_ "github.com/lib/pq"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

type pgClient struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (db.Client, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &pgClient{
		db: sqlDB,
	}, nil
}

func (c *pgClient) DB() *sql.DB {
	return c.db
}

func (c *pgClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

package db

import (
	"database/sql"
)

// Client владеет пулом соединений с БД
type Client interface {
	DB() *sql.DB
	Close() error
}

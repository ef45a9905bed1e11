package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/posqa/posuite/internal/config"
)

// DB is the ledger connection opened by Connect
var DB *sql.DB

// Connect opens the ledger database and verifies the connection
func Connect(pgConfig *config.PostgresConfig) error {
	db, err := Open(pgConfig)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open opens a new connection pool to the configured database
func Open(pgConfig *config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", pgConfig.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The suite runs one worker, a small pool is plenty
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes the ledger connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

package config

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// NewPostgres returns nil without error when no DSN is configured.
func NewPostgres(cfg *Config) (*sql.DB, error) {
	if cfg.Postgres.DSN == "" {
		return nil, nil
	}
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

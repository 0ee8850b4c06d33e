package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/familybot/companion/pkg/logger"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "001_create_kv",
			Up: []string{`
				CREATE TABLE IF NOT EXISTS kv (
					key   TEXT PRIMARY KEY,
					value TEXT NOT NULL
				)`,
			},
			Down: []string{`DROP TABLE kv`},
		},
	},
}

type sqliteKV struct {
	db *sql.DB
}

// NewSQLiteKV opens (or creates) the local database file and applies
// pending migrations.
func NewSQLiteKV(path string) (*sqliteKV, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := migrate.Exec(db, "sqlite3", migrations, migrate.Up); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &sqliteKV{db: db}, nil
}

func (s *sqliteKV) Get(key string) (string, bool) {
	const query = `SELECT value FROM kv WHERE key = $1`

	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("reading local storage", "key", key, logger.Err(err))
		}
		return "", false
	}
	return value, true
}

func (s *sqliteKV) Set(key, value string) {
	const query = `
		INSERT INTO kv (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := s.db.Exec(query, key, value); err != nil {
		slog.Error("writing local storage", "key", key, logger.Err(err))
	}
}

func (s *sqliteKV) Remove(key string) {
	const query = `DELETE FROM kv WHERE key = $1`

	if _, err := s.db.Exec(query, key); err != nil {
		slog.Error("removing local storage key", "key", key, logger.Err(err))
	}
}

func (s *sqliteKV) Close() error {
	return s.db.Close()
}

// Package db owns store access: opening the SQLite database with its
// connection pool, the schema, and the NoteStore data access layer that
// translates domain operations into queries and raw driver errors into the
// errs taxonomy.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DriverName is the SQLite driver registered by go-sqlcipher.
	DriverName = "sqlite3"

	// DefaultMaxOpenConns is the connection pool cap when none is configured.
	// SQLite is single-writer, so high connection counts are counterproductive.
	DefaultMaxOpenConns = 5

	// MaxIdleConns is the maximum number of idle connections kept around.
	MaxIdleConns = 2
)

// Open opens (creating if necessary) the notes database at path, configures
// the connection pool, and initializes the schema.
func Open(path string, maxOpenConns int) (*sql.DB, error) {
	if maxOpenConns <= 0 {
		maxOpenConns = DefaultMaxOpenConns
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := appendSQLiteParams(path, sqliteCommonParams())

	sqlDB, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes database: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(MaxIdleConns)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping notes database: %w", err)
	}

	if _, err := sqlDB.Exec(Schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize notes schema: %w", err)
	}

	return sqlDB, nil
}

func sqliteCommonParams() string {
	// Production-safe defaults: WAL + NORMAL provides good throughput while preserving safety.
	return "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
}

func appendSQLiteParams(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

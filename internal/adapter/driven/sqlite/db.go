// Package sqlite implements the driven storage ports on top of modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Pool sizes. SQLite allows one writer at a time; the single writer
// connection keeps "database is locked" out of the interaction log path.
const (
	writerConns = 1
	readerConns = 4
)

// DB holds separate writer and reader pools over one SQLite file.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens dbPath in WAL mode with a busy timeout and foreign keys on.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	dsn := "file:" + dbPath +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

	db, err := openDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	db.path = dbPath
	return db, nil
}

func openDB(ctx context.Context, dsn string) (*DB, error) {
	writer, err := openPool(ctx, dsn, writerConns)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}

	reader, err := openPool(ctx, dsn, readerConns)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: dsn}, nil
}

func openPool(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(maxConns)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}

// Path returns the file the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Close closes both pools.
func (db *DB) Close() error {
	return errors.Join(db.Reader.Close(), db.Writer.Close())
}

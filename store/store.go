package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/arloliu/simtrace/errs"
)

//go:embed schema.sql
var schemaSQL string

// DefaultHeartbeat is used when a trace has no CollectionGlobals row.
const DefaultHeartbeat = 10

// Store provides access to one trace database.
type Store struct {
	db       *sql.DB
	readOnly bool
}

// Open opens or creates a trace database for reading and writing and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("trace path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing trace database without modifying it.
func OpenReadOnly(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("trace path is required")
	}
	dsn := "file:" + filepath.ToSlash(filepath.Clean(path)) + "?mode=ro&_pragma=busy_timeout(5000)"

	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, readOnly: true}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps a record scan
	// on one consistent snapshot.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil

	return err
}

// ReadOnly reports whether the store was opened with OpenReadOnly.
func (s *Store) ReadOnly() bool {
	return s.readOnly
}

func (s *Store) check(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errs.ErrStoreNotOpen
	}

	return ctx.Err()
}

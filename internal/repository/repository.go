// Package repository implements the catalog store over sqlite.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"photovault/internal/config"
	"photovault/internal/shared"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = shared.ErrRecordNotFound

// Repository is the catalog store. Methods are safe for concurrent use.
type Repository struct {
	DB      *sql.DB
	Builder squirrel.StatementBuilderType // SQL Query Builder
	cache   *cache.Cache                  // vault lookups
}

// NewRepository opens (or creates) the catalog database.
func NewRepository(cfg *config.Config) (*Repository, error) {
	return Open(cfg.Database.Path)
}

// Open opens the catalog at path with foreign keys enforced.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		cache:   cache.New(5*time.Minute, 10*time.Minute),
	}, nil
}

// Close closes the underlying database.
func (s *Repository) Close() error {
	return s.DB.Close()
}

// BeginTx starts a transaction.
func (s *Repository) BeginTx() (*Tx, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, Builder: s.Builder}, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	out := v.Int64
	return &out
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	out := v.String
	return &out
}

// ptrValue converts a nil pointer into a SQL NULL.
func ptrValue[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB wraps the content store connection together with its SQL dialect.
type DB struct {
	*sql.DB
	driver string
}

// NewConnection opens a Postgres content store.
func NewConnection(host, port, user, password, dbname string) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	conn, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{DB: conn, driver: DriverPostgres}, nil
}

// NewSQLiteConnection opens (and creates if needed) a SQLite content store.
func NewSQLiteConnection(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open(DriverSQLite, path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: conn, driver: DriverSQLite}, nil
}

// Wrap adopts an existing connection, e.g. a sqlmock handle in tests.
func Wrap(conn *sql.DB, driver string) *DB {
	return &DB{DB: conn, driver: driver}
}

func (db *DB) Driver() string {
	return db.driver
}

// Rebind rewrites '?' placeholders into the driver's positional form.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// inClause renders "column IN (?, ?, ...)" and appends the ids to args.
func inClause(column string, ids []int64, args []interface{}) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

func inStrings(column string, values []string, args []interface{}) (string, []interface{}) {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args = append(args, v)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

// limitClause renders LIMIT/OFFSET; a non-positive limit means unbounded.
func limitClause(limit, offset int, args []interface{}) (string, []interface{}) {
	if limit <= 0 {
		return "", args
	}
	return " LIMIT ? OFFSET ?", append(args, limit, offset)
}

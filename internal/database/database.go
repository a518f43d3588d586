// Package database opens the MySQL connection pool and manages the schema of the contacts
// backend.
package database

import (
	"bufio"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

const dialect = "mysql"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Options are the connection parameters of the database.
type Options struct {
	User            string
	Password        string
	Host            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the data source name for opts. DATE and DATETIME columns are parsed into
// time.Time values.
func DSN(opts Options) string {
	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = opts.Host
	cfg.DBName = opts.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// Open returns a connection pool for the database described by opts. No connection is made
// until the pool is first used.
func Open(opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open(dialect, DSN(opts))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Migrations returns the schema migrations that are compiled into the binary.
func Migrations() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies all pending migrations and returns how many were applied.
func Migrate(db *sql.DB) (int, error) {
	n, err := migrate.Exec(db, dialect, Migrations(), migrate.Up)
	if err != nil {
		return n, fmt.Errorf("apply migrations: %w", err)
	}
	return n, nil
}

// Rollback reverts the most recent steps migrations. With steps 0 all migrations are reverted.
func Rollback(db *sql.DB, steps int) (int, error) {
	n, err := migrate.ExecMax(db, dialect, Migrations(), migrate.Down, steps)
	if err != nil {
		return n, fmt.Errorf("roll back migrations: %w", err)
	}
	return n, nil
}

// ExecScript executes the SQL statements read from r, one after the other. Statements may span
// several lines and end with a semicolon at the end of a line. It returns the number of
// executed statements.
func ExecScript(ctx context.Context, db sqlx.ExecerContext, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	builder := strings.Builder{}
	executed := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			statement := strings.TrimSpace(builder.String())
			if _, err := db.ExecContext(ctx, statement); err != nil {
				return executed, fmt.Errorf("statement %d: %w", executed+1, err)
			}
			executed++
			builder.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return executed, fmt.Errorf("read script: %w", err)
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		return executed, fmt.Errorf("statement %d is not terminated by a semicolon", executed+1)
	}
	return executed, nil
}

// Package repository implements owner-scoped data access for contacts and read access to
// users on top of sqlx and MySQL. It knows nothing about HTTP; failures are reported as the
// sentinel errors and the IntegrityError type defined here.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a record does not exist or is owned by another user.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when the owner already has a contact with the email.
	ErrDuplicateEmail = errors.New("contact with this email already exists")

	// ErrInvalidBounds is returned for negative pagination or window arguments.
	ErrInvalidBounds = errors.New("skip, limit and days must not be negative")
)

// MySQL server error numbers that indicate a violated integrity constraint.
const (
	erDupEntry          = 1062
	erBadNull           = 1048
	erRowIsReferenced   = 1451
	erNoReferencedRow   = 1452
	erDataTooLong       = 1406
	erCheckConstraint   = 3819
	erNoReferencedRowV1 = 1216
)

// Conn is the database handle a repository works on. A leased *sqlx.Conn is used per request;
// a *sqlx.DB works just as well.
type Conn interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// IntegrityError is returned when the database rejects a write because of a violated
// constraint. Key names the constraint or column the server reported, if any.
type IntegrityError struct {
	Number uint16
	Key    string
	Err    error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation %d on %q: %v", e.Number, e.Key, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether a unique constraint was violated.
func (e *IntegrityError) IsUniqueViolation() bool {
	return e.Number == erDupEntry
}

// Concerns reports whether the violated constraint or column mentions column.
func (e *IntegrityError) Concerns(column string) bool {
	return strings.Contains(strings.ToLower(e.Key), strings.ToLower(column))
}

// keyPattern extracts the constraint or column name from a MySQL error message, e.g.
// "Duplicate entry 'a@b.c-1' for key 'contacts.uq_contacts_owner_email'".
var keyPattern = regexp.MustCompile("for key '([^']+)'|[Cc]olumn '([^']+)'|CONSTRAINT `([^`]+)`")

// asIntegrityError returns the IntegrityError for err, or nil if err is not a constraint
// violation.
func asIntegrityError(err error) *IntegrityError {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return nil
	}
	switch mysqlErr.Number {
	case erDupEntry, erBadNull, erRowIsReferenced, erNoReferencedRow, erNoReferencedRowV1,
		erDataTooLong, erCheckConstraint:
	default:
		return nil
	}
	var key string
	if m := keyPattern.FindStringSubmatch(mysqlErr.Message); m != nil {
		key = m[1] + m[2] + m[3]
	}
	return &IntegrityError{Number: mysqlErr.Number, Key: key, Err: err}
}

// withTx runs fn in a transaction on conn. The transaction is committed if fn succeeds and
// rolled back otherwise, also when fn panics.
func withTx(ctx context.Context, conn Conn, fn func(tx *sqlx.Tx) error) error {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		if ie := asIntegrityError(err); ie != nil {
			return ie
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// conditions collects the parts of a WHERE clause that are combined with AND.
type conditions struct {
	parts []string
	args  []interface{}
}

// scopedTo starts a WHERE clause that only matches rows owned by owner.
func scopedTo(owner int64) *conditions {
	return &conditions{parts: []string{"owner_id = ?"}, args: []interface{}{owner}}
}

func (c *conditions) add(cond string, args ...interface{}) {
	c.parts = append(c.parts, cond)
	c.args = append(c.args, args...)
}

func (c *conditions) String() string {
	return strings.Join(c.parts, " AND ")
}

// argsWith returns the condition arguments followed by extra, without touching c.args.
func (c *conditions) argsWith(extra ...interface{}) []interface{} {
	args := make([]interface{}, 0, len(c.args)+len(extra))
	args = append(args, c.args...)
	return append(args, extra...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern that matches s anywhere, case-insensitively when
// compared against a LOWER() column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(Options{User: "dirk", Password: "pw", Host: "db:3306", Name: "contacts"})

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "dirk", cfg.User)
	assert.Equal(t, "pw", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "contacts", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestMigrations(t *testing.T) {
	found, err := Migrations().FindMigrations()
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "0001_create_users.sql", found[0].Id)
	assert.Equal(t, "0002_create_contacts.sql", found[1].Id)
	require.Len(t, found[1].Up, 1)
	assert.Contains(t, found[1].Up[0], "CONSTRAINT uq_contacts_owner_email UNIQUE (owner_id, email)")
	assert.Contains(t, found[1].Down[0], "DROP TABLE contacts")
}

func TestExecScript(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	script := `-- seed data
INSERT INTO users (id, email)
VALUES (1, 'dirk@example.com');

INSERT INTO contacts (owner_id, first_name, last_name, email, phone_number)
VALUES (1, 'Ada', 'Lovelace', 'ada@example.com', '+44 1');
`
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, email) VALUES (1, 'dirk@example.com');")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WillReturnResult(sqlmock.NewResult(1, 1))

	n, err := ExecScript(context.Background(), db, strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecScriptFailures(t *testing.T) {
	t.Run("failing statement", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectExec("DROP TABLE").WillReturnError(errors.New("no such table"))

		n, err := ExecScript(context.Background(), db, strings.NewReader("DROP TABLE nothing;\nSELECT 1;\n"))
		assert.ErrorContains(t, err, "statement 1")
		assert.Equal(t, 0, n)
	})

	t.Run("unterminated statement", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = ExecScript(context.Background(), db, strings.NewReader("SELECT 1"))
		assert.ErrorContains(t, err, "not terminated")
	})
}

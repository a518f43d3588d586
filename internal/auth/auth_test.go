package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
)

const secret = "test-secret"

func createMockObjects(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "mysql"), mock
}

func expectUser(mock sqlmock.Sqlmock, id int64) *sqlmock.ExpectedQuery {
	return mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email FROM users WHERE id = ?")).
		WithArgs(id)
}

// TestCurrentUser resolves a valid token to the user it was issued for.
func TestCurrentUser(t *testing.T) {
	db, mock := createMockObjects(t)
	resolver := NewResolver(secret)
	token, err := resolver.Sign(7, time.Hour)
	require.NoError(t, err)

	expectUser(mock, 7).WillReturnRows(mock.NewRows([]string{"id", "email"}).AddRow(7, "owner@example.com"))

	user, err := resolver.CurrentUser(context.Background(), db, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "owner@example.com", user.Email)
}

// TestCurrentUserRejected covers the ways a request can fail to authenticate. None of them may
// reveal more than EUNAUTHORIZED.
func TestCurrentUserRejected(t *testing.T) {
	resolver := NewResolver(secret)
	valid, err := resolver.Sign(7, time.Hour)
	require.NoError(t, err)
	expired, err := resolver.Sign(7, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewResolver("other-secret").Sign(7, time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "7"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	notAnID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "seven"}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + valid},
		{"empty token", "Bearer "},
		{"garbage", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
		{"unsigned", "Bearer " + noneAlg},
		{"subject is not an id", "Bearer " + notAnID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := createMockObjects(t)
			_, err := resolver.CurrentUser(context.Background(), db, tt.header)
			assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
			assert.Equal(t, "Could not validate credentials", errs.ErrorMessage(err))
		})
	}
}

// TestCurrentUserUnknown presents a valid token for a user that no longer exists.
func TestCurrentUserUnknown(t *testing.T) {
	db, mock := createMockObjects(t)
	resolver := NewResolver(secret)
	token, err := resolver.Sign(8, time.Hour)
	require.NoError(t, err)

	expectUser(mock, 8).WillReturnRows(mock.NewRows([]string{"id", "email"}))

	_, err = resolver.CurrentUser(context.Background(), db, "Bearer "+token)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

// TestCurrentUserDatabaseDown expects an internal error, not a rejected token, when the user
// cannot be read.
func TestCurrentUserDatabaseDown(t *testing.T) {
	db, mock := createMockObjects(t)
	resolver := NewResolver(secret)
	token, err := resolver.Sign(7, time.Hour)
	require.NoError(t, err)

	expectUser(mock, 7).WillReturnError(errors.New("connection reset"))

	_, err = resolver.CurrentUser(context.Background(), db, "Bearer "+token)
	assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
}

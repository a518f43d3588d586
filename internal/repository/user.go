package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
)

// UserRepository reads the users that own contacts.
type UserRepository struct {
	conn sqlx.QueryerContext
}

// NewUserRepository returns a repository that reads users through conn.
func NewUserRepository(conn sqlx.QueryerContext) *UserRepository {
	return &UserRepository{conn: conn}
}

// GetByID returns the user with the given id, or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := sqlx.GetContext(ctx, r.conn, &user, "SELECT id, email FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// Package auth resolves the user on whose behalf a request is executed. Requests carry a JWT in
// the Authorization header; the token's subject is the id of a row in the users table.
package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/repository"
)

const bearerPrefix = "Bearer "

// errCredentials is the only thing a caller learns about a rejected token.
var errCredentials = errs.Errorf(errs.EUNAUTHORIZED, "Could not validate credentials")

// Resolver verifies access tokens signed with a shared secret.
type Resolver struct {
	secret []byte
	now    func() time.Time
}

// NewResolver returns a resolver for tokens signed with secret using HS256.
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret), now: time.Now}
}

// CurrentUser verifies the bearer token in header and returns the user it was issued for. The
// user is read through q. Every failure to authenticate is an EUNAUTHORIZED error.
func (r *Resolver) CurrentUser(ctx context.Context, q sqlx.QueryerContext, header string) (model.User, error) {
	tokenString, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || strings.TrimSpace(tokenString) == "" {
		return model.User{}, errCredentials
	}
	id, err := r.subject(strings.TrimSpace(tokenString))
	if err != nil {
		return model.User{}, errs.Wrap(errs.EUNAUTHORIZED, err, errCredentials.Message)
	}

	user, err := repository.NewUserRepository(q).GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, errs.Wrap(errs.EUNAUTHORIZED, err, errCredentials.Message)
	}
	if err != nil {
		return model.User{}, errs.Wrap(errs.EINTERNAL, err, "look up current user")
	}
	return user, nil
}

// subject parses and verifies tokenString and returns the user id it names.
func (r *Resolver) subject(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(r.now))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("token subject is not a user id")
	}
	return id, nil
}

// Sign issues a token for the user with the given id that is valid for ttl. It is used by tools
// and tests that talk to the API; end users obtain their tokens elsewhere.
func (r *Resolver) Sign(userID int64, ttl time.Duration) (string, error) {
	now := r.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

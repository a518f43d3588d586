package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/birthday"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
)

// ErrInvalidOrder is returned when a listing is to be sorted by a column that is not allowed.
var ErrInvalidOrder = errors.New("contacts cannot be ordered by this column")

const contactColumns = "id, owner_id, first_name, last_name, email, phone_number, birthday, additional_info"

// orderColumns are the columns a listing may be sorted by.
var orderColumns = map[string]bool{
	"id":         true,
	"first_name": true,
	"last_name":  true,
	"email":      true,
	"birthday":   true,
}

// ContactRepository stores the contacts of all users. Every operation is restricted to the
// contacts of one owner.
type ContactRepository struct {
	conn Conn
	now  func() time.Time
}

// Option configures a ContactRepository.
type Option func(*ContactRepository)

// WithClock makes the repository read the current time from now instead of time.Now. It
// determines the start of the upcoming birthdays window.
func WithClock(now func() time.Time) Option {
	return func(r *ContactRepository) {
		r.now = now
	}
}

// NewContactRepository returns a repository that works on conn.
func NewContactRepository(conn Conn, opts ...Option) *ContactRepository {
	r := &ContactRepository{conn: conn, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new contact for owner and returns it with its assigned id. It fails with
// ErrDuplicateEmail if the owner already has a contact with the same email address.
func (r *ContactRepository) Create(ctx context.Context, owner int64, in model.ContactCreate) (model.Contact, error) {
	contact := in.Contact(owner)
	err := withTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		var existing int64
		err := tx.QueryRowxContext(ctx,
			"SELECT id FROM contacts WHERE owner_id = ? AND email = ? LIMIT 1", owner, in.Email).
			Scan(&existing)
		switch {
		case err == nil:
			return ErrDuplicateEmail
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("look up email: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO contacts (owner_id, first_name, last_name, email, phone_number, birthday, additional_info)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			contact.OwnerID, contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber,
			contact.Birthday, contact.AdditionalInfo)
		if err != nil {
			if ie := asIntegrityError(err); ie != nil {
				if ie.IsUniqueViolation() && ie.Concerns("email") {
					return ErrDuplicateEmail
				}
				return ie
			}
			return fmt.Errorf("insert contact: %w", err)
		}
		contact.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("read contact id: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Contact{}, err
	}
	return contact, nil
}

// List returns one page of the owner's contacts that match the filter.
func (r *ContactRepository) List(ctx context.Context, owner int64, params model.ListParams) (model.ContactPage, error) {
	if params.Skip < 0 || params.Limit < 0 {
		return model.ContactPage{}, ErrInvalidBounds
	}
	orderBy, err := orderClause(params.Order)
	if err != nil {
		return model.ContactPage{}, err
	}
	where := scopedTo(owner)
	if params.Filter.FirstName != "" {
		where.add("LOWER(first_name) LIKE ?", containsPattern(params.Filter.FirstName))
	}
	if params.Filter.LastName != "" {
		where.add("LOWER(last_name) LIKE ?", containsPattern(params.Filter.LastName))
	}
	if params.Filter.Email != "" {
		where.add("LOWER(email) LIKE ?", containsPattern(params.Filter.Email))
	}
	return r.page(ctx, where, orderBy, params.Skip, params.Limit)
}

// GetByID returns the owner's contact with the given id, or ErrNotFound.
func (r *ContactRepository) GetByID(ctx context.Context, owner, id int64) (model.Contact, error) {
	return getContact(ctx, r.conn, owner, id)
}

// Update applies the set fields of patch to the owner's contact and returns the result. An
// empty patch leaves the contact untouched.
func (r *ContactRepository) Update(ctx context.Context, owner, id int64, patch model.ContactPatch) (model.Contact, error) {
	var contact model.Contact
	err := withTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		current, err := getContact(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		patch.Apply(&current)
		contact = current
		if patch.IsEmpty() {
			return nil
		}

		set, args := assignments(patch, current)
		query := "UPDATE contacts SET " + strings.Join(set, ", ") + " WHERE id = ? AND owner_id = ?"
		if _, err := tx.ExecContext(ctx, query, append(args, id, owner)...); err != nil {
			if ie := asIntegrityError(err); ie != nil {
				return ie
			}
			return fmt.Errorf("update contact %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return model.Contact{}, err
	}
	return contact, nil
}

// Delete removes the owner's contact and returns it as it was before the removal.
func (r *ContactRepository) Delete(ctx context.Context, owner, id int64) (model.Contact, error) {
	var contact model.Contact
	err := withTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		var err error
		contact, err = getContact(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM contacts WHERE id = ? AND owner_id = ?", id, owner)
		if err != nil {
			return fmt.Errorf("delete contact %d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete contact %d: %w", id, err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return model.Contact{}, err
	}
	return contact, nil
}

// Search returns the owner's contacts whose first name, last name or email contains query,
// ignoring case.
func (r *ContactRepository) Search(ctx context.Context, owner int64, query string) ([]model.Contact, error) {
	where := scopedTo(owner)
	pattern := containsPattern(query)
	where.add("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)",
		pattern, pattern, pattern)

	contacts := []model.Contact{}
	q := "SELECT " + contactColumns + " FROM contacts WHERE " + where.String() + " ORDER BY id"
	if err := sqlx.SelectContext(ctx, r.conn, &contacts, q, where.args...); err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return contacts, nil
}

// UpcomingBirthdays returns one page of the owner's contacts whose birthday falls within the
// next days days, today included. Only month and day are compared.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, owner int64, days, skip, limit int) (model.ContactPage, error) {
	if days < 0 || skip < 0 || limit < 0 {
		return model.ContactPage{}, ErrInvalidBounds
	}
	window := birthday.NewWindow(model.DateOf(r.now()), days)
	where := scopedTo(owner)
	cond, args := window.Predicate("birthday")
	where.add(cond, args...)
	return r.page(ctx, where, "id", skip, limit)
}

// page counts all contacts matching where and selects the requested slice of them.
func (r *ContactRepository) page(ctx context.Context, where *conditions, orderBy string, skip, limit int) (model.ContactPage, error) {
	page := model.ContactPage{Skip: skip, Limit: limit, Contacts: []model.Contact{}}
	count := "SELECT COUNT(*) FROM contacts WHERE " + where.String()
	if err := sqlx.GetContext(ctx, r.conn, &page.TotalCount, count, where.args...); err != nil {
		return model.ContactPage{}, fmt.Errorf("count contacts: %w", err)
	}
	q := "SELECT " + contactColumns + " FROM contacts WHERE " + where.String() +
		" ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	if err := sqlx.SelectContext(ctx, r.conn, &page.Contacts, q, where.argsWith(limit, skip)...); err != nil {
		return model.ContactPage{}, fmt.Errorf("select contacts: %w", err)
	}
	return page, nil
}

func getContact(ctx context.Context, q sqlx.QueryerContext, owner, id int64) (model.Contact, error) {
	var contact model.Contact
	err := sqlx.GetContext(ctx, q, &contact,
		"SELECT "+contactColumns+" FROM contacts WHERE id = ? AND owner_id = ?", id, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("get contact %d: %w", id, err)
	}
	return contact, nil
}

// orderClause renders the ORDER BY clause for o. Ties are broken by id.
func orderClause(o model.Ordering) (string, error) {
	column := o.Column
	if column == "" {
		column = "id"
	}
	if !orderColumns[column] {
		return "", ErrInvalidOrder
	}
	direction := "ASC"
	if o.Descending {
		direction = "DESC"
	}
	if column == "id" {
		return "id " + direction, nil
	}
	return column + " " + direction + ", id " + direction, nil
}

// assignments returns the SET expressions and values for the fields of patch, taken from the
// patched contact c.
func assignments(patch model.ContactPatch, c model.Contact) ([]string, []interface{}) {
	var set []string
	var args []interface{}
	if patch.FirstName.IsSet() {
		set = append(set, "first_name = ?")
		args = append(args, c.FirstName)
	}
	if patch.LastName.IsSet() {
		set = append(set, "last_name = ?")
		args = append(args, c.LastName)
	}
	if patch.Email.IsSet() {
		set = append(set, "email = ?")
		args = append(args, c.Email)
	}
	if patch.PhoneNumber.IsSet() {
		set = append(set, "phone_number = ?")
		args = append(args, c.PhoneNumber)
	}
	if patch.Birthday.IsSet() {
		set = append(set, "birthday = ?")
		args = append(args, c.Birthday)
	}
	if patch.AdditionalInfo.IsSet() {
		set = append(set, "additional_info = ?")
		args = append(args, c.AdditionalInfo)
	}
	return set, args
}

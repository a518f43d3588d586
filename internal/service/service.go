// Package service contains the business operations on contacts. It validates input, makes sure
// every call acts on behalf of a user, and translates storage failures into application errors
// from package errs.
package service

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/repository"
)

// ContactStore is the storage the service works on. It is implemented by
// repository.ContactRepository.
type ContactStore interface {
	Create(ctx context.Context, owner int64, in model.ContactCreate) (model.Contact, error)
	List(ctx context.Context, owner int64, params model.ListParams) (model.ContactPage, error)
	GetByID(ctx context.Context, owner, id int64) (model.Contact, error)
	Update(ctx context.Context, owner, id int64, patch model.ContactPatch) (model.Contact, error)
	Delete(ctx context.Context, owner, id int64) (model.Contact, error)
	Search(ctx context.Context, owner int64, query string) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, owner int64, days, skip, limit int) (model.ContactPage, error)
}

// ContactService executes the contact operations of one user.
type ContactService struct {
	store ContactStore
}

// NewContactService returns a service that stores contacts in store.
func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

// Create validates and stores a new contact of owner.
func (s *ContactService) Create(ctx context.Context, owner int64, in model.ContactCreate) (model.Contact, error) {
	if err := checkOwner(owner); err != nil {
		return model.Contact{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Contact{}, err
	}
	contact, err := s.store.Create(ctx, owner, in)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return model.Contact{}, errs.Wrap(errs.ECONFLICT, err,
			fmt.Sprintf("Contact with email %s already exists.", in.Email))
	}
	if err != nil {
		return model.Contact{}, translate(err)
	}
	return contact, nil
}

// List returns one page of the owner's contacts.
func (s *ContactService) List(ctx context.Context, owner int64, params model.ListParams) (model.ContactPage, error) {
	if err := checkOwner(owner); err != nil {
		return model.ContactPage{}, err
	}
	page, err := s.store.List(ctx, owner, params)
	if err != nil {
		return model.ContactPage{}, translate(err)
	}
	return page, nil
}

// GetByID returns a single contact of owner.
func (s *ContactService) GetByID(ctx context.Context, owner, id int64) (model.Contact, error) {
	if err := checkOwner(owner); err != nil {
		return model.Contact{}, err
	}
	contact, err := s.store.GetByID(ctx, owner, id)
	if err != nil {
		return model.Contact{}, translate(err)
	}
	return contact, nil
}

// Update validates patch and applies it to a contact of owner.
func (s *ContactService) Update(ctx context.Context, owner, id int64, patch model.ContactPatch) (model.Contact, error) {
	if err := checkOwner(owner); err != nil {
		return model.Contact{}, err
	}
	if err := patch.Validate(); err != nil {
		return model.Contact{}, err
	}
	contact, err := s.store.Update(ctx, owner, id, patch)
	if err != nil {
		return model.Contact{}, translate(err)
	}
	return contact, nil
}

// Delete removes a contact of owner and returns its last state.
func (s *ContactService) Delete(ctx context.Context, owner, id int64) (model.Contact, error) {
	if err := checkOwner(owner); err != nil {
		return model.Contact{}, err
	}
	contact, err := s.store.Delete(ctx, owner, id)
	if err != nil {
		return model.Contact{}, translate(err)
	}
	return contact, nil
}

// Search returns the contacts of owner that contain query in a name or the email address.
func (s *ContactService) Search(ctx context.Context, owner int64, query string) ([]model.Contact, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	contacts, err := s.store.Search(ctx, owner, query)
	if err != nil {
		return nil, translate(err)
	}
	return contacts, nil
}

// UpcomingBirthdays returns one page of the owner's contacts that have their birthday within the
// next days days.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, owner int64, days, skip, limit int) (model.ContactPage, error) {
	if err := checkOwner(owner); err != nil {
		return model.ContactPage{}, err
	}
	page, err := s.store.UpcomingBirthdays(ctx, owner, days, skip, limit)
	if err != nil {
		return model.ContactPage{}, translate(err)
	}
	return page, nil
}

func checkOwner(owner int64) error {
	if owner == 0 {
		return errs.Errorf(errs.EUNAUTHORIZED, "Could not validate credentials")
	}
	return nil
}

// translate maps a storage error to an application error. Errors that are already application
// errors are returned unchanged.
func translate(err error) error {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}

	var integrity *repository.IntegrityError
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return errs.Wrap(errs.ECONFLICT, err, "Contact with this email already exists.")
	case errors.Is(err, repository.ErrNotFound):
		return errs.Wrap(errs.ENOTFOUND, err, "Contact not found")
	case errors.Is(err, repository.ErrInvalidBounds):
		return errs.Wrap(errs.EUNPROCESSABLE, err, "skip, limit and days must not be negative")
	case errors.Is(err, repository.ErrInvalidOrder):
		return errs.Wrap(errs.EUNPROCESSABLE, err, "invalid orderby parameter")
	case errors.As(err, &integrity):
		if integrity.IsUniqueViolation() && integrity.Concerns("email") {
			return errs.Wrap(errs.ECONFLICT, err, "Contact with this email already exists.")
		}
		if integrity.IsUniqueViolation() {
			return errs.Wrap(errs.EINVALID, err, "Record already exists with provided unique value.")
		}
		return errs.Wrap(errs.EINVALID, err, "Database integrity error.")
	}
	return errs.Wrap(errs.EINTERNAL, err, "unexpected storage failure")
}

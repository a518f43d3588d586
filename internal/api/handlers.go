package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/repository"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/service"
)

// contacts returns the contact service for the connection and user of the request.
func (s *Server) contacts(c *gin.Context) (*service.ContactService, int64) {
	repo := repository.NewContactRepository(conn(c), s.repoOpts...)
	return service.NewContactService(repo), currentUser(c).ID
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// healthcheck responds with a short message if the service can reach its database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/healthcheck
func (s *Server) healthcheck(c *gin.Context) {
	if p, ok := conn(c).(pinger); ok {
		if err := p.PingContext(c.Request.Context()); err != nil {
			s.writeError(c, errs.Wrap(errs.EINTERNAL, err, "ping database"))
			return
		}
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "The application is up and running!"})
}

// me responds with the user the request is authenticated for.
//
// Example REST API call:
//
//	> curl http://localhost:8080/users/me --header "Authorization: Bearer $TOKEN"
func (s *Server) me(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, currentUser(c))
}

// findContacts responds with one page of the user's contacts as JSON, together with the number
// of all contacts that match the filter.
//
// The URL parameters 'first_name', 'last_name' and 'email' filter the contacts. A contact matches
// if the value occurs anywhere in the respective field, ignoring case. All given filters must
// match.
//
// The URL parameter 'limit' specifies how many contacts matching the search criteria are returned.
// The URL parameter 'skip' specifies how many items from the sorted list of results are skipped
// in the beginning. Together with the 'limit' parameter, one can implement search result paging.
//
// The URL parameter 'orderby' specifies the contact property by which the results shall be sorted.
// Valid values are 'id', 'first_name', 'last_name', 'email', and 'birthday'. If this URL parameter
// is not specified, the contacts will be sorted by id. If the URL parameter 'ascending' is set to
// 'false' then the sort order is reversed.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts/?first_name=Ji"
//	> curl "http://localhost:8080/contacts/?last_name=smi&email=example.com"
//	> curl "http://localhost:8080/contacts/?limit=20&skip=60"
//	> curl "http://localhost:8080/contacts/?orderby=birthday&ascending=false"
func (s *Server) findContacts(c *gin.Context) {
	params, err := s.listParams(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	svc, owner := s.contacts(c)
	page, err := svc.List(c.Request.Context(), owner, params)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, page)
}

// upcomingBirthdays responds with one page of the contacts whose birthday is today or within the
// number of days given by the URL parameter 'days'.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/birthdays/?days=30"
func (s *Server) upcomingBirthdays(c *gin.Context) {
	days, err := queryInt(c, "days", s.settings.BirthdayDefaultDays, 1, s.settings.BirthdayMaxDays)
	if err != nil {
		s.writeError(c, err)
		return
	}
	skip, limit, err := s.pagination(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	svc, owner := s.contacts(c)
	page, err := svc.UpcomingBirthdays(c.Request.Context(), owner, days, skip, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, page)
}

// searchContacts responds with all contacts that contain the URL parameter 'query' in their first
// name, last name or email address.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/search/?query=smith"
func (s *Server) searchContacts(c *gin.Context) {
	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		s.writeError(c, errs.Errorf(errs.EUNPROCESSABLE, "query parameter is required"))
		return
	}
	svc, owner := s.contacts(c)
	contacts, err := svc.Search(c.Request.Context(), owner, query)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// createContact inserts the contact specified in the request's JSON into the database. It responds
// with the full contact data including the newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/ --request "POST" --include --header "Content-Type: application/json" --data '{"first_name": "Hans", "last_name": "Wurst", "email": "hans@example.com", "phone_number": "0815", "birthday": "1969-03-02"}'
func (s *Server) createContact(c *gin.Context) {
	var in model.ContactCreate
	if err := bindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	svc, owner := s.contacts(c)
	contact, err := svc.Create(c.Request.Context(), owner, in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, contact)
}

// findContactByID responds with the contact whose ID value matches the id parameter of the
// request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56
func (s *Server) findContactByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	svc, owner := s.contacts(c)
	contact, err := svc.GetByID(c.Request.Context(), owner, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID updates the values specified in the JSON (and only those) of the contact
// whose ID value matches the id parameter of the request URL, and responds with the new version
// of the contact. A null value clears the birthday or the additional info.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/contacts/56 --request "PATCH" --include --header "Content-Type: application/json" --data '{"phone_number": "81970"}'
//	> curl http://localhost:8080/contacts/56 --request "PATCH" --include --header "Content-Type: application/json" --data '{"birthday": null}'
func (s *Server) updateContactByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var patch model.ContactPatch
	if err := bindJSON(c, &patch); err != nil {
		s.writeError(c, err)
		return
	}
	// It only makes sense to continue if we have at least one value to update.
	if patch.IsEmpty() {
		s.writeError(c, errs.Errorf(errs.EINVALID, "no values to be updated"))
		return
	}
	svc, owner := s.contacts(c)
	contact, err := svc.Update(c.Request.Context(), owner, id, patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request
// URL from the database and responds with the deleted contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "DELETE"
func (s *Server) deleteContactByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	svc, owner := s.contacts(c)
	contact, err := svc.Delete(c.Request.Context(), owner, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

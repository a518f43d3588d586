package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
)

// pathID returns the id parameter of the request URL. A malformed id cannot name any contact, so
// it is reported as not found.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errs.Errorf(errs.ENOTFOUND, "invalid id parameter")
	}
	return id, nil
}

// queryInt returns the integer URL parameter name, or def if it is absent. Values outside
// [min, max] are rejected.
func queryInt(c *gin.Context, name string, def, min, max int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, errs.Errorf(errs.EUNPROCESSABLE,
			"invalid %s parameter: expected an integer between %d and %d", name, min, max)
	}
	return v, nil
}

// pagination returns the skip and limit URL parameters.
func (s *Server) pagination(c *gin.Context) (skip, limit int, err error) {
	skip, err = queryInt(c, "skip", 0, 0, math.MaxInt32)
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(c, "limit", s.settings.DefaultPageSize, 0, s.settings.MaxPageSize)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

// ordering returns the orderby and ascending URL parameters. The column is checked by the
// repository.
func ordering(c *gin.Context) (model.Ordering, error) {
	order := model.Ordering{Column: c.Query("orderby")}
	switch strings.ToLower(c.Query("ascending")) {
	case "", "true":
	case "false":
		order.Descending = true
	default:
		return model.Ordering{}, errs.Errorf(errs.EUNPROCESSABLE, "invalid ascending parameter")
	}
	return order, nil
}

// listParams collects the URL parameters of a contact listing.
func (s *Server) listParams(c *gin.Context) (model.ListParams, error) {
	skip, limit, err := s.pagination(c)
	if err != nil {
		return model.ListParams{}, err
	}
	order, err := ordering(c)
	if err != nil {
		return model.ListParams{}, err
	}
	return model.ListParams{
		Skip:  skip,
		Limit: limit,
		Filter: model.ContactFilter{
			FirstName: c.Query("first_name"),
			LastName:  c.Query("last_name"),
			Email:     c.Query("email"),
		},
		Order: order,
	}, nil
}

// bindJSON decodes the request body into obj. Malformed JSON is a bad request.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return errs.Wrap(errs.EINVALID, err, "invalid JSON: "+err.Error())
	}
	return nil
}

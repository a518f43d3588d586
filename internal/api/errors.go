package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
)

// statusCodes maps application error codes to HTTP status codes.
var statusCodes = map[string]int{
	errs.ECONFLICT:      http.StatusConflict,
	errs.EINVALID:       http.StatusBadRequest,
	errs.ENOTFOUND:      http.StatusNotFound,
	errs.EUNAUTHORIZED:  http.StatusUnauthorized,
	errs.EUNPROCESSABLE: http.StatusUnprocessableEntity,
	errs.ERATELIMITED:   http.StatusTooManyRequests,
	errs.EINTERNAL:      http.StatusInternalServerError,
}

// errorStatus returns the HTTP status code for an application error code.
func errorStatus(code string) int {
	if status, ok := statusCodes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError aborts the request with the status and message of err. Internal errors are logged
// with their cause and reported to Sentry; the caller only sees a generic message.
func (s *Server) writeError(c *gin.Context, err error) {
	code := errs.ErrorCode(err)
	status := errorStatus(code)

	switch {
	case status >= http.StatusInternalServerError:
		s.requestLog(c).Error("request failed", "error", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	case status == http.StatusUnauthorized:
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": errs.ErrorMessage(err)})
}

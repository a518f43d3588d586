// Package api is the REST interface of the contacts backend. It leases one database connection
// per request, resolves the current user from the bearer token, and maps the results of the
// contact service to HTTP responses.
package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/auth"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/repository"
)

// Settings are the tunable limits and switches of the REST interface.
type Settings struct {
	MaxPageSize         int
	DefaultPageSize     int
	BirthdayMaxDays     int
	BirthdayDefaultDays int
	CORSOrigins         []string
	RequestLogging      bool
	UsersMePerMinute    int
	// TrustedProxies are the addresses or CIDR ranges whose forwarding headers are believed.
	// Without any the client address is always the remote address of the connection.
	TrustedProxies []string
}

// Server holds the dependencies shared by all requests.
type Server struct {
	db       *sqlx.DB
	resolver *auth.Resolver
	log      *logger.Logger
	settings Settings
	repoOpts []repository.Option
	meLimit  *clientLimiter
}

// New returns a server that works on the connection pool db. The repository options are applied
// to the contact repository of every request.
func New(db *sqlx.DB, resolver *auth.Resolver, log *logger.Logger, settings Settings, opts ...repository.Option) *Server {
	return &Server{
		db:       db,
		resolver: resolver,
		log:      log,
		settings: settings,
		repoOpts: opts,
		meLimit:  newClientLimiter(settings.UsersMePerMinute),
	}
}

// Router initializes the REST API router and registers all endpoints.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(s.settings.TrustedProxies); err != nil {
		s.log.Error("invalid trusted proxies, forwarding headers are ignored", "error", err)
	}
	router.Use(requestID())
	if s.settings.RequestLogging {
		router.Use(s.requestLogger())
	}
	router.Use(gin.CustomRecovery(s.recovered))
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg, ok := corsConfig(s.settings.CORSOrigins); ok {
		router.Use(cors.New(cfg))
	}
	router.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "The requested resource does not exist."})
	})

	router.GET("/healthcheck", s.leaseConn(), s.healthcheck)

	authed := router.Group("/", s.leaseConn(), s.authenticate())
	authed.GET("/users/me", s.rateLimit(s.meLimit), s.me)

	contacts := authed.Group("/contacts")
	contacts.POST("/", s.createContact)
	contacts.GET("/", s.findContacts)
	contacts.GET("/birthdays/", s.upcomingBirthdays)
	contacts.GET("/search/", s.searchContacts)
	contacts.GET("/:id", s.findContactByID)
	contacts.PATCH("/:id", s.updateContactByID)
	contacts.PUT("/:id", s.updateContactByID)
	contacts.DELETE("/:id", s.deleteContactByID)
	return router
}

// corsConfig allows the configured origins. A "*" entry allows every origin. Without origins
// no CORS handling is installed.
func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg, true
		}
	}
	cfg.AllowOrigins = origins
	return cfg, true
}

package api

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/repository"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// Keys of the values that middleware stores in the gin context.
const (
	requestIDKey = "request_id"
	connKey      = "conn"
	userKey      = "user"
)

// requestID tags every request with an id. An id sent by the client is kept.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs every request once it has been handled. The level depends on the status.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if user, ok := c.Get(userKey); ok {
			fields = append(fields, "user_id", user.(model.User).ID)
		}
		log := s.requestLog(c)
		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// requestLog returns the server's logger annotated with the request.
func (s *Server) requestLog(c *gin.Context) *logger.Logger {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return s.log.With(
		"request_id", c.GetString(requestIDKey),
		"method", c.Request.Method,
		"path", path,
	)
}

// recovered turns a panic in a handler into an internal error response.
func (s *Server) recovered(c *gin.Context, recovered any) {
	s.writeError(c, errs.Errorf(errs.EINTERNAL, "panic: %v", recovered))
}

// leaseConn reserves one connection of the pool for the request and returns it to the pool
// when the request is done, whether it succeeded or not.
func (s *Server) leaseConn() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := s.db.Connx(c.Request.Context())
		if err != nil {
			s.writeError(c, errs.Wrap(errs.EINTERNAL, err, "lease database connection"))
			return
		}
		defer conn.Close()
		c.Set(connKey, repository.Conn(conn))
		c.Next()
	}
}

// conn returns the connection leased for the request.
func conn(c *gin.Context) repository.Conn {
	return c.MustGet(connKey).(repository.Conn)
}

// authenticate resolves the user of the bearer token and rejects the request if there is none.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.resolver.CurrentUser(c.Request.Context(), conn(c), c.GetHeader("Authorization"))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Set(userKey, user)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetUser(sentry.User{ID: strconv.FormatInt(user.ID, 10)})
		}
		c.Next()
	}
}

// currentUser returns the user the request was authenticated for.
func currentUser(c *gin.Context) model.User {
	return c.MustGet(userKey).(model.User)
}

// rateLimit rejects requests of clients that exceed the limit of l.
func (s *Server) rateLimit(l *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			s.writeError(c, errs.Errorf(errs.ERATELIMITED, "Requests rate limit exceeded"))
			return
		}
		c.Next()
	}
}

// clientLimiter grants each client address a number of requests per minute. A nil limiter
// allows everything.
type clientLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// idleClient is how long a client has to be quiet before its bucket is dropped.
const idleClient = 3 * time.Minute

func newClientLimiter(perMinute int) *clientLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &clientLimiter{perMinute: perMinute, clients: make(map[string]*clientBucket)}
}

func (l *clientLimiter) allow(client string, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > idleClient {
		for key, b := range l.clients {
			if now.Sub(b.lastSeen) > idleClient {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}
	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.clients[client] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/api"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/auth"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/config"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/database"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 JWT_SECRET=s3cr3t GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Println("could not create logger", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		})
		if err != nil {
			log.Fatal("could not initialize sentry", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(database.Options{
		User:            cfg.DB.User,
		Password:        cfg.DB.Password,
		Host:            cfg.DB.Host,
		Name:            cfg.DB.Name,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal("could not open database", "error", err)
	}
	defer db.Close()

	server := api.New(db, auth.NewResolver(cfg.JWTSecret), log, api.Settings{
		MaxPageSize:         cfg.Pagination.MaxPageSize,
		DefaultPageSize:     cfg.Pagination.DefaultPageSize,
		BirthdayMaxDays:     cfg.Birthdays.MaxDays,
		BirthdayDefaultDays: cfg.Birthdays.DefaultDays,
		CORSOrigins:         cfg.CORSOrigins,
		RequestLogging:      cfg.RequestLogging(),
		UsersMePerMinute:    cfg.RateLimit.UsersMePerMinute,
		TrustedProxies:      cfg.TrustedProxies,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return
	}
	log.Info("server stopped")
}

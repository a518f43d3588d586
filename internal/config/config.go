// Package config reads the settings of the contacts backend from the environment. A .env file in
// the working directory is loaded first if it exists.
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv      string   `envconfig:"APP_ENV" default:"development"`
	Port        int      `envconfig:"PORT" default:"8080"`
	GinLogging  string   `envconfig:"GIN_LOGGING"`
	SentryDSN   string   `envconfig:"SENTRY_DSN"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`
	JWTSecret   string   `envconfig:"JWT_SECRET" required:"true"`
	// TrustedProxies are the proxies allowed to report the client address in X-Forwarded-For.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	DB struct {
		User            string        `envconfig:"DBUSER"`
		Password        string        `envconfig:"DBPWD"`
		Host            string        `envconfig:"DBHOST" default:"localhost:3306"`
		Name            string        `envconfig:"DBNAME" default:"test"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}
	Pagination struct {
		MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"500"`
		DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"100"`
	}
	Birthdays struct {
		MaxDays     int `envconfig:"BIRTHDAY_MAX_DAYS" default:"365"`
		DefaultDays int `envconfig:"BIRTHDAY_DEFAULT_DAYS" default:"7"`
	}
	RateLimit struct {
		// UsersMePerMinute is the number of /users/me requests a client may send per minute.
		// Zero disables the limit.
		UsersMePerMinute int `envconfig:"RATE_LIMIT_USERS_ME" default:"5"`
	}
}

func Load() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}
	return cfg, nil
}

func (c *Config) check() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	p := c.Pagination
	if p.MaxPageSize < 1 || p.DefaultPageSize < 0 || p.DefaultPageSize > p.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 0 and MAX_PAGE_SIZE (%d)", p.MaxPageSize)
	}
	b := c.Birthdays
	if b.MaxDays < 1 || b.DefaultDays < 1 || b.DefaultDays > b.MaxDays {
		return fmt.Errorf("BIRTHDAY_DEFAULT_DAYS must be between 1 and BIRTHDAY_MAX_DAYS (%d)", b.MaxDays)
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is neither an IP address nor a CIDR range", proxy)
		}
	}
	return nil
}

// RequestLogging is false if HTTP request logging was turned off with GIN_LOGGING=off.
func (c *Config) RequestLogging() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

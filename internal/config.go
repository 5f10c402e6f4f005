package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/folio/internal/loader"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Cache modes for fetched write-ups.
const (
	CacheModeNone   = "none"
	CacheModeMemory = "memory"
	CacheModeRedis  = "redis"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Loader  LoaderConfig      `yaml:"loader"`
	Theme   ThemeConfig       `yaml:"theme"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Loader.Validate(); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig selects the catalog source. An empty Path uses the
// catalog compiled into the binary.
type CatalogConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// LoaderConfig configures remote write-up retrieval.
type LoaderConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Branches []string      `yaml:"branches"`
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
	Cache    CacheConfig   `yaml:"cache"`
}

// Validate validates the loader configuration.
func (c *LoaderConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Branches, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxBytes, validation.Min(int64(0))),
	); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// CacheConfig configures the optional write-up cache.
type CacheConfig struct {
	Mode     string        `yaml:"mode"`
	TTL      time.Duration `yaml:"ttl"`
	RedisURL string        `yaml:"redis_url"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = CacheModeNone
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.In(CacheModeNone, CacheModeMemory, CacheModeRedis)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if c.Mode == CacheModeRedis && c.RedisURL == "" {
		return fmt.Errorf("loader.cache: mode is %q but redis_url is empty", CacheModeRedis)
	}
	return nil
}

// ThemeConfig holds the preference database location.
type ThemeConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the theme configuration.
func (c *ThemeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SQLitePath, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Loader: LoaderConfig{
			BaseURL:  loader.DefaultBaseURL,
			Branches: append([]string(nil), loader.DefaultBranches...),
			Timeout:  15 * time.Second,
			MaxBytes: loader.DefaultMaxBytes,
			Cache: CacheConfig{
				Mode: CacheModeNone,
				TTL:  10 * time.Minute,
			},
		},
		Theme: ThemeConfig{
			SQLitePath: "./folio.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/caarlos0/env/v11"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the application configuration.
type Config struct {
	EnvVars EnvVars `json:"env"`
	Seed    *Seed   `json:"-"`
}

// EnvVars holds environment variables required by the application.
// Fields tagged `optional:"true"` are skipped by CheckConfigEnvFields.
type EnvVars struct {
	Port               string   `env:"PORT" envDefault:"8080"`
	GinMode            string   `env:"GIN_MODE" envDefault:"debug"`
	StorageBackend     string   `env:"STORAGE_BACKEND" envDefault:"postgres"`
	DatabaseUrl        string   `env:"DATABASE_URL" optional:"true"`
	JwtSecretKey       string   `env:"JWT_SECRET_KEY" optional:"true"`
	SeedFile           string   `env:"SEED_FILE" optional:"true"`
	CorsAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," optional:"true"`
	RateLimitRPS       int      `env:"RATE_LIMIT_RPS" envDefault:"20"`
}

// LoadConfig parses environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	var config Config
	if err := env.Parse(&config.EnvVars); err != nil {
		return nil, err
	}
	return &config, nil
}

// IsDev reports whether the server runs outside gin's release mode.
func (c *Config) IsDev() bool {
	return c.EnvVars.GinMode != "release"
}

// Validate checks the combinations of settings that CheckConfigEnvFields cannot express.
func (c *Config) Validate() error {
	switch c.EnvVars.StorageBackend {
	case BackendPostgres:
		if c.EnvVars.DatabaseUrl == "" {
			return errors.New("$DATABASE_URL must be set for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.EnvVars.StorageBackend)
	}
	switch c.EnvVars.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown gin mode %q", c.EnvVars.GinMode)
	}
	if c.EnvVars.RateLimitRPS <= 0 {
		return fmt.Errorf("$RATE_LIMIT_RPS must be positive, got %d", c.EnvVars.RateLimitRPS)
	}
	return nil
}

// CheckConfigEnvFields validates that all required EnvVars fields are set.
func (c *Config) CheckConfigEnvFields() error {
	return checkFieldsRecursive(reflect.ValueOf(c.EnvVars))
}

func checkFieldsRecursive(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)
		if fieldType.Tag.Get("optional") == "true" {
			continue
		}
		if isZeroValue(field) {
			return fmt.Errorf("$%s must be set", fieldType.Tag.Get("env"))
		}
		if field.Kind() == reflect.Struct {
			if err := checkFieldsRecursive(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func isZeroValue(v reflect.Value) bool {
	return v.IsZero()
}

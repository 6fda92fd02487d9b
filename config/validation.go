package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable in
// the current environment. Production refuses to start without the
// sensitive values; development falls back to a known-weak JWT
// secret so the server can run standalone.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errors = append(errors, ValidationError{"SERVER_PORT", "must be numeric"}.Error())
	}
	if cfg.DBHost == "" {
		errors = append(errors, ValidationError{"DB_HOST", "must not be empty"}.Error())
	}
	if cfg.DBName == "" {
		errors = append(errors, ValidationError{"DB_NAME", "must not be empty"}.Error())
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errors = append(errors, ValidationError{"db_password", "secret is required in production"}.Error())
		}
		if cfg.JWTSecret == "" {
			errors = append(errors, ValidationError{"jwt_secret", "secret is required in production"}.Error())
		}
	} else if cfg.JWTSecret == "" {
		cfg.JWTSecret = "insecure-dev-secret"
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

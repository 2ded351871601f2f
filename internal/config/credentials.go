package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Credentials holds the Planning Center secrets. They are read from the environment, never
// from the YAML config.
type Credentials struct {
	// Personal access token pair for the JSON:API
	AppID  string `env:"PCO_APP_ID" validate:"required_without=AccessToken"`
	Secret string `env:"PCO_SECRET" validate:"required_with=AppID"`
	// OAuth access token, used instead of the pair when set
	AccessToken string `env:"PCO_ACCESS_TOKEN"`

	// Web login for submitting check-ins
	Email    string `env:"PCO_EMAIL" validate:"required_with=Password"`
	Password string `env:"PCO_PASSWORD" validate:"required_with=Email"`
}

// HasWebLogin reports whether check-ins can be submitted with these credentials
func (c *Credentials) HasWebLogin() bool {
	return c.Email != "" && c.Password != ""
}

// LoadCredentials reads credentials from the environment, first loading .env.<env> (or .env
// when env is empty) from the current directory if it exists. Variables already set in the
// environment take precedence over the file.
func LoadCredentials(envName string) (*Credentials, error) {
	envFile := ".env"
	if envName != "" {
		envFile = ".env." + envName
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	return ParseCredentials()
}

// ParseCredentials reads and validates credentials from the process environment
func ParseCredentials() (*Credentials, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	if err := ValidateCredentials(&creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// ValidateCredentials checks that an API credential is present and the web login is complete
func ValidateCredentials(creds *Credentials) error {
	if err := validate.Struct(creds); err != nil {
		return fmt.Errorf("credentials validation failed: %w", err)
	}
	return nil
}

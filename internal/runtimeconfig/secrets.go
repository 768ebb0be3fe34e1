package runtimeconfig

import (
	"errors"
	"os"
	"strings"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// ErrSecretMissing marks an unset credential environment variable.
var ErrSecretMissing = errors.New("environment variable is not set")

// Secrets holds credentials for the external image services.
type Secrets struct {
	PhotoAccessKey string
	CDNToken       string
}

// LoadSecrets reads the credentials named by cfg from getenv (os.Getenv when
// nil). Both are required; the first missing one is reported as a
// *interfaces.ConfigurationError.
func LoadSecrets(cfg ImagesConfig, getenv func(string) string) (Secrets, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	var secrets Secrets
	var err error
	if secrets.PhotoAccessKey, err = LookupSecret(cfg.PhotoAccessKeyEnv, getenv); err != nil {
		return Secrets{}, err
	}
	if secrets.CDNToken, err = LookupSecret(cfg.CDNTokenEnv, getenv); err != nil {
		return Secrets{}, err
	}
	return secrets, nil
}

// LookupSecret reads a single required credential from getenv.
func LookupSecret(name string, getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &interfaces.ConfigurationError{Field: "env", Err: errors.New("variable name is empty")}
	}
	value := strings.TrimSpace(getenv(name))
	if value == "" {
		return "", &interfaces.ConfigurationError{Field: name, Err: ErrSecretMissing}
	}
	return value, nil
}

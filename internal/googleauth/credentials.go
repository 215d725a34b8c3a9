// Package googleauth builds authenticated HTTP clients for Google APIs from the
// service account credentials found in the environment.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
)

// ErrMissingCredentials is returned when neither credential variable is set.
var ErrMissingCredentials = errors.New("missing Google credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS")

// LoadCredentials returns the raw service account JSON.
// GOOGLE_APPLICATION_CREDENTIALS (a file path) wins over GOOGLE_CREDENTIALS (inline JSON).
func LoadCredentials() ([]byte, error) {
	const op = "LoadCredentials"

	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
		return creds, nil
	}
	if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		return []byte(credsJSON), nil
	}
	return nil, fmt.Errorf("%s: %w", op, ErrMissingCredentials)
}

// Client returns an HTTP client authorised for the given scopes.
func Client(ctx context.Context, scopes ...string) (*http.Client, error) {
	const op = "Client"

	creds, err := LoadCredentials()
	if err != nil {
		return nil, err
	}

	config, err := google.JWTConfigFromJSON(creds, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	return config.Client(ctx), nil
}

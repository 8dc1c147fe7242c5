package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a provider has no value for a secret.
var ErrNotFound = errors.New("secret not found")

// Provider retrieves secrets from one backend.
type Provider interface {
	// GetSecret returns the value of the named secret. It wraps ErrNotFound
	// when the backend has no such secret.
	GetSecret(ctx context.Context, name string) (string, error)

	// Name returns the provider name ("env", "file").
	Name() string
}

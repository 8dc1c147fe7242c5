package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider loads secrets from environment variables.
//
// The secret name is upper-cased, hyphens become underscores and Prefix is
// prepended: "google-api-key" is read from ASKGATE_SECRET_GOOGLE_API_KEY.
type EnvProvider struct {
	Prefix string
}

// NewEnvProvider creates an environment provider with the given prefix.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{Prefix: prefix}
}

// GetSecret reads the secret's environment variable. Empty values count as
// missing.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	envVar := p.EnvVar(name)

	value := strings.TrimSpace(os.Getenv(envVar))
	if value == "" {
		return "", fmt.Errorf("%w in environment: %s", ErrNotFound, envVar)
	}
	return value, nil
}

// Name returns "env".
func (p *EnvProvider) Name() string {
	return "env"
}

// EnvVar returns the environment variable consulted for name.
func (p *EnvProvider) EnvVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

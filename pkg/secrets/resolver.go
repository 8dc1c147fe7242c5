package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// refPattern matches ${secret:name} references.
var refPattern = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Resolver tries each provider in order until one returns a value.
type Resolver struct {
	providers []Provider
	logger    *slog.Logger
}

// NewResolver creates a resolver over providers, tried in order.
func NewResolver(logger *slog.Logger, providers ...Provider) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		providers: providers,
		logger:    logger.With("component", "secrets"),
	}
}

// GetSecret returns the first value found for name. Provider errors other
// than ErrNotFound stop the search.
func (r *Resolver) GetSecret(ctx context.Context, name string) (string, error) {
	for _, p := range r.providers {
		value, err := p.GetSecret(ctx, name)
		if err == nil {
			r.logger.Debug("secret resolved", "name", redactName(name), "provider", p.Name())
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("provider %s: %w", p.Name(), err)
		}
	}
	return "", fmt.Errorf("%w: %q (tried %s)", ErrNotFound, name, strings.Join(r.names(), ", "))
}

// Resolve replaces every ${secret:name} reference in input. A value with no
// references is returned unchanged. On error the input is returned as is.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	var errs []error

	output := refPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := strings.TrimSpace(refPattern.FindStringSubmatch(match)[1])
		value, err := r.GetSecret(ctx, name)
		if err != nil {
			errs = append(errs, err)
			return match
		}
		return value
	})

	if len(errs) > 0 {
		return input, fmt.Errorf("failed to resolve secret references: %w", errors.Join(errs...))
	}
	return output, nil
}

// HasReference reports whether s contains a ${secret:name} reference.
func HasReference(s string) bool {
	return refPattern.MatchString(s)
}

func (r *Resolver) names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// redactName keeps log lines useful without echoing the full secret name.
func redactName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}

package main

import (
	"context"
	"log/slog"

	"frontmentor/askgate/pkg/config"
	"frontmentor/askgate/pkg/secrets"
)

// resolveSecrets replaces ${secret:name} references in the credential.
// Values without references are left alone.
func resolveSecrets(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !secrets.HasReference(cfg.Upstream.APIKey) {
		return nil
	}

	providers := []secrets.Provider{secrets.NewEnvProvider(cfg.Secrets.EnvPrefix)}
	if cfg.Secrets.Dir != "" {
		files, err := secrets.NewFileProvider(cfg.Secrets.Dir)
		if err != nil {
			return err
		}
		providers = append(providers, files)
	}

	key, err := secrets.NewResolver(logger, providers...).Resolve(ctx, cfg.Upstream.APIKey)
	if err != nil {
		return err
	}
	cfg.Upstream.APIKey = key
	return nil
}

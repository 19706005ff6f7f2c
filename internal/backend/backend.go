// Package backend selects the task service implementation named in the config.
package backend

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"forgiveness/internal/backend/googletasks"
	"forgiveness/internal/backend/rest"
	"forgiveness/internal/config"
	"forgiveness/internal/service"
)

// New returns the service for cfg.Backend. The REST client dumps raw
// payloads to logger at debug level.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendREST:
		c, err := rest.New(rest.Options{
			APIRoot:     cfg.APIRoot,
			ClientID:    cfg.ClientID,
			AccessToken: cfg.AccessToken,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("not logged in (run: forgiveness login)")
		}
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

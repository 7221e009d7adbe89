// Package tenantconfig resolves per-workspace calculation provider
// configuration from the plugin configuration store.
package tenantconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/pkg/cache"
)

// Store loads raw plugin configuration documents.
type Store interface {
	FindPluginConfig(ctx context.Context, pluginID, workspaceID string) (*domain.ProviderConfig, error)
}

// Resolver caches per-workspace provider configuration. A workspace with
// no configuration yields domain.ErrNotConfigured; the core never calls
// the provider for such a workspace.
type Resolver struct {
	store    Store
	cache    *cache.Cache
	cacheTTL time.Duration
	pluginID string
	logger   *slog.Logger
}

// NewResolver builds a resolver over the given store.
func NewResolver(store Store, c *cache.Cache, cacheTTL time.Duration, pluginID string, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		pluginID: pluginID,
		logger:   logger,
	}
}

func (r *Resolver) cacheKey(workspaceID string) string {
	return fmt.Sprintf("plugincfg:%s:%s", r.pluginID, workspaceID)
}

// Resolve returns the provider configuration for a workspace.
func (r *Resolver) Resolve(ctx context.Context, workspaceID string) (*domain.ProviderConfig, error) {
	if v, ok := r.cache.Get(r.cacheKey(workspaceID)); ok {
		if cfg, ok := v.(*domain.ProviderConfig); ok {
			return cfg, nil
		}
	}

	cfg, err := r.store.FindPluginConfig(ctx, r.pluginID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve workspace config: %w", err)
	}

	r.cache.Set(r.cacheKey(workspaceID), cfg, r.cacheTTL)
	r.logger.Debug("workspace provider config resolved",
		slog.String("workspace_id", workspaceID),
	)
	return cfg, nil
}

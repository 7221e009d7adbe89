// Package lookup implements the tiered hash-to-horoscope resolution chain:
// a fixed sequence of tiers sharing one Lookup/Populate contract, checked
// in order with a short-circuit on the first hit.
package lookup

import (
	"context"
	"log/slog"
)

// Tier resolves a (workspace, birth hash) pair to a horoscope ID.
// A tier must degrade to a miss on internal failure; tiers are an
// optimization, never a correctness dependency.
type Tier interface {
	Name() string
	Lookup(ctx context.Context, workspaceID, birthHash string) (string, bool)
	Populate(ctx context.Context, workspaceID, birthHash, horoscopeID string)
	Evict(ctx context.Context, workspaceID, birthHash string)
}

// Chain checks tiers in order. On a hit, every tier in front of the hit
// is backfilled so the next request resolves earlier.
type Chain struct {
	tiers  []Tier
	logger *slog.Logger
}

// NewChain builds a chain over tiers in lookup order.
func NewChain(logger *slog.Logger, tiers ...Tier) *Chain {
	return &Chain{tiers: tiers, logger: logger}
}

// Lookup returns the horoscope ID, the name of the tier that answered and
// whether any tier hit.
func (c *Chain) Lookup(ctx context.Context, workspaceID, birthHash string) (string, string, bool) {
	for i, tier := range c.tiers {
		id, ok := tier.Lookup(ctx, workspaceID, birthHash)
		if !ok {
			continue
		}
		for _, front := range c.tiers[:i] {
			front.Populate(ctx, workspaceID, birthHash, id)
		}
		c.logger.Debug("lookup chain hit",
			slog.String("tier", tier.Name()),
			slog.String("birth_hash", birthHash),
		)
		return id, tier.Name(), true
	}
	return "", "", false
}

// Populate writes the mapping into every tier. Best-effort: tier failures
// are swallowed by the tiers themselves.
func (c *Chain) Populate(ctx context.Context, workspaceID, birthHash, horoscopeID string) {
	for _, tier := range c.tiers {
		tier.Populate(ctx, workspaceID, birthHash, horoscopeID)
	}
}

// Evict drops the mapping from every tier. Used when a cached ID turns out
// to point at a horoscope that no longer exists.
func (c *Chain) Evict(ctx context.Context, workspaceID, birthHash string) {
	for _, tier := range c.tiers {
		tier.Evict(ctx, workspaceID, birthHash)
	}
}

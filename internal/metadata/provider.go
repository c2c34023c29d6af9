// Package metadata orchestrates candidate lookup across external metadata
// providers, with a persistent cache and per-provider rate limiting.
package metadata

import (
	"context"

	"github.com/vmunix/sortarr/internal/media"
)

//go:generate mockgen -source=provider.go -destination=mocks/provider.go -package=mocks

// Provider is one external metadata source. Search returns ranked
// candidates for an identity; an empty slice with nil error means the
// provider knows nothing matching.
type Provider interface {
	// Name identifies the provider in candidates, logs, and config.
	Name() string

	// Search queries the provider for candidates matching the identity.
	Search(ctx context.Context, id media.Identity) ([]media.Candidate, error)
}

// Package resolve classifies dependency names against the Arch Linux
// registries.
//
// A dependency spec from a build manifest names either an official
// repository package, an AUR package, or something neither registry knows
// (virtual packages, package groups, sonames). The Resolver checks the
// official repositories first, mirroring pacman's lookup order, and falls
// back to the AUR.
package resolve

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgsmith/pkg/cache"
	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/registry"
	"github.com/matzehuels/pkgsmith/pkg/registry/aur"
	"github.com/matzehuels/pkgsmith/pkg/registry/official"
)

// Source identifies which registry carries a package.
type Source string

const (
	SourceOfficial Source = "official"
	SourceAUR      Source = "aur"
	SourceUnknown  Source = "unknown"
)

// Resolution is the outcome of looking up one dependency spec.
type Resolution struct {
	Name        string `json:"name"`                  // Package name with any version constraint stripped
	Spec        string `json:"spec"`                  // Original dependency spec as written in the manifest
	Source      Source `json:"source"`                // Which registry carries the package
	Repo        string `json:"repo,omitempty"`        // Repository ("core", "extra", "aur", ...)
	Version     string `json:"version,omitempty"`     // Current version in the registry
	Description string `json:"description,omitempty"` // Package description
	Flagged     bool   `json:"flagged,omitempty"`     // Whether the package is flagged out of date
}

// OfficialClient is the part of the official registry client the Resolver needs.
type OfficialClient interface {
	Info(ctx context.Context, name string, refresh bool) (*official.PackageInfo, error)
}

// AURClient is the part of the AUR client the Resolver needs.
type AURClient interface {
	Info(ctx context.Context, name string, refresh bool) (*aur.PackageInfo, error)
}

// Resolver looks up dependency specs across both registries.
type Resolver struct {
	Official OfficialClient
	AUR      AURClient
	Logger   *log.Logger
}

// New creates a Resolver with real registry clients sharing one cache
// backend. Pass nil for backend to disable caching and nil for logger to
// use the default logger.
func New(backend cache.Cache, ttl time.Duration, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		Official: official.NewClient(backend, ttl),
		AUR:      aur.NewClient(backend, ttl),
		Logger:   logger,
	}
}

// Resolve looks up a single dependency spec. Version constraints like
// ">=2.38" are stripped before lookup. Specs unknown to both registries
// resolve to SourceUnknown; that covers virtual packages, package groups,
// and soname dependencies, which pacman satisfies through providers.
//
// An error is returned only for network failures; a missing package is not
// an error.
func (r *Resolver) Resolve(ctx context.Context, spec string, refresh bool) (*Resolution, error) {
	name := errors.SpecName(spec)
	res := &Resolution{Name: name, Spec: spec, Source: SourceUnknown}

	info, err := r.Official.Info(ctx, name, refresh)
	switch {
	case err == nil:
		res.Source = SourceOfficial
		res.Repo = info.Repo
		res.Version = info.Version
		res.Description = info.Description
		res.Flagged = info.Flagged
		return res, nil
	case !stderrors.Is(err, registry.ErrNotFound):
		return nil, err
	}

	aurInfo, err := r.AUR.Info(ctx, name, refresh)
	switch {
	case err == nil:
		res.Source = SourceAUR
		res.Repo = "aur"
		res.Version = aurInfo.Version
		res.Description = aurInfo.Description
		res.Flagged = aurInfo.OutOfDate != nil
		return res, nil
	case !stderrors.Is(err, registry.ErrNotFound):
		return nil, err
	}

	r.Logger.Debug("package not found in any registry", "name", name)
	return res, nil
}

// ResolveAll looks up each spec in order. Lookups hit the shared cache, so
// repeated specs cost one request. The first network failure aborts the
// whole batch.
func (r *Resolver) ResolveAll(ctx context.Context, specs []string, refresh bool) ([]Resolution, error) {
	results := make([]Resolution, 0, len(specs))
	for _, spec := range specs {
		res, err := r.Resolve(ctx, spec, refresh)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

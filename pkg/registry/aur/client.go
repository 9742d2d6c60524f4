// Package aur provides access to the Arch User Repository RPC interface.
package aur

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/matzehuels/pkgsmith/pkg/cache"
	"github.com/matzehuels/pkgsmith/pkg/registry"
)

// PackageInfo holds metadata for a package in the AUR.
//
// Version is the full pacman version string including the release suffix
// (e.g. "2.0.4-1"). OutOfDate is nil unless the package has been flagged.
//
// Zero values: string fields are empty, slices are nil, counters are 0.
// This struct is safe for concurrent reads after construction.
type PackageInfo struct {
	Name         string     // Package name (never empty in valid info)
	PackageBase  string     // Base name for split packages
	Version      string     // Full version including release (e.g. "2.0.4-1")
	Description  string     // Package description (may be empty)
	URL          string     // Upstream URL (may be empty)
	Maintainer   string     // Current maintainer (empty if orphaned)
	NumVotes     int        // AUR vote count
	Popularity   float64    // AUR popularity score
	OutOfDate    *time.Time // When the package was flagged out of date (nil if not flagged)
	LastModified time.Time  // Last update to the AUR package
	Depends      []string   // Runtime dependency specs (nil if none)
	MakeDepends  []string   // Build-time dependency specs (nil if none)
	CheckDepends []string   // Test-time dependency specs (nil if none)
	License      []string   // License identifiers (nil if none)
}

// Orphaned reports whether the package has no maintainer.
func (p *PackageInfo) Orphaned() bool { return p.Maintainer == "" }

// Client provides access to the AUR RPC v5 API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*registry.Client
	baseURL string
}

// NewClient creates an AUR client with the given cache backend.
//
// Parameters:
//   - backend: cache backend for RPC response caching (nil for no caching)
//   - cacheTTL: how long responses are cached (typical: 1-24 hours)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"User-Agent": registry.UserAgent,
	}
	return &Client{
		Client:  registry.NewClient(backend, "aur:", cacheTTL, headers),
		baseURL: "https://aur.archlinux.org",
	}
}

// Info retrieves metadata for a package from the AUR.
//
// The name must match the AUR package name exactly; AUR names are
// case-sensitive.
//
// If refresh is true, the cache is bypassed and a fresh RPC call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [registry.ErrNotFound] if the package doesn't exist in the AUR
//   - [registry.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//
// The returned pointer is never nil if err is nil.
func (c *Client) Info(ctx context.Context, name string, refresh bool) (*PackageInfo, error) {
	var info PackageInfo
	err := c.Cached(ctx, name, refresh, &info, func() error {
		return c.fetch(ctx, name, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, name string, info *PackageInfo) error {
	u := fmt.Sprintf("%s/rpc/v5/info?arg[]=%s", c.baseURL, url.QueryEscape(name))

	var data rpcResponse
	if err := c.Get(ctx, u, &data); err != nil {
		return err
	}
	if data.Type == "error" {
		return fmt.Errorf("%w: %s", registry.ErrNetwork, data.Error)
	}
	if data.ResultCount == 0 || len(data.Results) == 0 {
		return fmt.Errorf("%w: %s in AUR", registry.ErrNotFound, name)
	}

	r := data.Results[0]
	*info = PackageInfo{
		Name:         r.Name,
		PackageBase:  r.PackageBase,
		Version:      r.Version,
		Description:  r.Description,
		URL:          r.URL,
		Maintainer:   r.Maintainer,
		NumVotes:     r.NumVotes,
		Popularity:   r.Popularity,
		OutOfDate:    unixTime(r.OutOfDate),
		Depends:      r.Depends,
		MakeDepends:  r.MakeDepends,
		CheckDepends: r.CheckDepends,
		License:      r.License,
	}
	if r.LastModified > 0 {
		info.LastModified = time.Unix(r.LastModified, 0).UTC()
	}
	return nil
}

func unixTime(ts *int64) *time.Time {
	if ts == nil {
		return nil
	}
	t := time.Unix(*ts, 0).UTC()
	return &t
}

// rpcResponse mirrors the AUR RPC v5 info payload. Field names in the
// results use the AUR's CamelCase convention.
type rpcResponse struct {
	Type        string `json:"type"`
	Error       string `json:"error"`
	ResultCount int    `json:"resultcount"`
	Results     []struct {
		Name         string   `json:"Name"`
		PackageBase  string   `json:"PackageBase"`
		Version      string   `json:"Version"`
		Description  string   `json:"Description"`
		URL          string   `json:"URL"`
		Maintainer   string   `json:"Maintainer"`
		NumVotes     int      `json:"NumVotes"`
		Popularity   float64  `json:"Popularity"`
		OutOfDate    *int64   `json:"OutOfDate"`
		LastModified int64    `json:"LastModified"`
		Depends      []string `json:"Depends"`
		MakeDepends  []string `json:"MakeDepends"`
		CheckDepends []string `json:"CheckDepends"`
		License      []string `json:"License"`
	} `json:"results"`
}

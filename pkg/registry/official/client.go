// Package official provides access to the Arch Linux official package
// search API on archlinux.org.
package official

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/pkgsmith/pkg/cache"
	"github.com/matzehuels/pkgsmith/pkg/registry"
)

// PackageInfo holds metadata for a package in the official repositories.
//
// Version is the full pacman version string including epoch and release
// (e.g. "1:2.43-1"). A package may appear in several repositories at once
// while migrating through testing; Info returns the stable entry.
//
// Zero values: string fields are empty, slices are nil, Flagged is false.
// This struct is safe for concurrent reads after construction.
type PackageInfo struct {
	Name         string    // Package name (never empty in valid info)
	Repo         string    // Repository (e.g. "core", "extra")
	Arch         string    // Architecture (e.g. "x86_64", "any")
	Version      string    // Full version including epoch and release
	Description  string    // Package description (may be empty)
	URL          string    // Upstream URL (may be empty)
	LastUpdate   time.Time // When the package was last rebuilt
	Flagged      bool      // Whether the package is flagged out of date
	Depends      []string  // Runtime dependency specs (nil if none)
	MakeDepends  []string  // Build-time dependency specs (nil if none)
	CheckDepends []string  // Test-time dependency specs (nil if none)
	Maintainers  []string  // Package maintainers (nil if none)
}

// Client provides access to the archlinux.org package search API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*registry.Client
	baseURL string
}

// NewClient creates a client for the official package search API.
//
// Parameters:
//   - backend: cache backend for response caching (nil for no caching)
//   - cacheTTL: how long responses are cached (typical: 1-24 hours)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"User-Agent": registry.UserAgent,
	}
	return &Client{
		Client:  registry.NewClient(backend, "official:", cacheTTL, headers),
		baseURL: "https://archlinux.org",
	}
}

// Info retrieves metadata for a package from the official repositories.
//
// The name must match the pkgname exactly; the search endpoint does exact
// matching on the name parameter.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [registry.ErrNotFound] if no repository carries the package
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
	u := fmt.Sprintf("%s/packages/search/json/?name=%s", c.baseURL, url.QueryEscape(name))

	var data searchResponse
	if err := c.Get(ctx, u, &data); err != nil {
		return err
	}

	r, ok := pick(data.Results)
	if !ok {
		return fmt.Errorf("%w: %s in official repositories", registry.ErrNotFound, name)
	}

	*info = PackageInfo{
		Name:         r.PkgName,
		Repo:         r.Repo,
		Arch:         r.Arch,
		Version:      formatVersion(r.Epoch, r.PkgVer, r.PkgRel),
		Description:  r.PkgDesc,
		URL:          r.URL,
		Flagged:      r.FlagDate != nil,
		Depends:      r.Depends,
		MakeDepends:  r.MakeDepends,
		CheckDepends: r.CheckDepends,
		Maintainers:  r.Maintainers,
	}
	if t, err := time.Parse(time.RFC3339, r.LastUpdate); err == nil {
		info.LastUpdate = t.UTC()
	}
	return nil
}

// pick selects the stable entry when a package is listed in several
// repositories. Testing and staging entries are only used when no stable
// repository carries the package.
func pick(results []searchResult) (searchResult, bool) {
	for _, r := range results {
		if !strings.HasSuffix(r.Repo, "-testing") && !strings.HasSuffix(r.Repo, "-staging") {
			return r, true
		}
	}
	if len(results) > 0 {
		return results[0], true
	}
	return searchResult{}, false
}

// formatVersion composes the pacman version string epoch:pkgver-pkgrel,
// omitting a zero epoch.
func formatVersion(epoch int, pkgver, pkgrel string) string {
	if epoch > 0 {
		return fmt.Sprintf("%d:%s-%s", epoch, pkgver, pkgrel)
	}
	return pkgver + "-" + pkgrel
}

type searchResponse struct {
	Valid   bool           `json:"valid"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	PkgName      string   `json:"pkgname"`
	PkgBase      string   `json:"pkgbase"`
	Repo         string   `json:"repo"`
	Arch         string   `json:"arch"`
	PkgVer       string   `json:"pkgver"`
	PkgRel       string   `json:"pkgrel"`
	Epoch        int      `json:"epoch"`
	PkgDesc      string   `json:"pkgdesc"`
	URL          string   `json:"url"`
	LastUpdate   string   `json:"last_update"`
	FlagDate     *string  `json:"flag_date"`
	Depends      []string `json:"depends"`
	MakeDepends  []string `json:"makedepends"`
	CheckDepends []string `json:"checkdepends"`
	Maintainers  []string `json:"maintainers"`
}

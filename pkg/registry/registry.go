// Package registry looks up Arch Linux packages in the official
// repositories and the AUR.
//
// The base Client wraps HTTP access with response caching, retry with
// backoff for transient failures, and a small error taxonomy shared by the
// per-registry clients in the aur and official subpackages. The Resolver in
// the resolve subpackage combines both registries to classify dependency
// names the way pacman would find them.
package registry

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

// UserAgent identifies pkgsmith to registry APIs. The AUR asks clients to
// send a descriptive User-Agent.
const UserAgent = "pkgsmith/1.0 (+https://github.com/matzehuels/pkgsmith)"

var (
	// ErrNotFound is returned when a package doesn't exist in the registry.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

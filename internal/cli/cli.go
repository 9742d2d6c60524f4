// Package cli implements the pkgsmith command-line interface.
//
// Commands cover the packaging pipeline end to end: inspect a PKGBUILD
// without executing it, install its dependencies, run the build, collect
// the artifacts, and serve them to other machines. A CLI value carries the
// logger and loaded configuration shared by all commands.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/pkg/buildinfo"
	"github.com/matzehuels/pkgsmith/pkg/cache"
	"github.com/matzehuels/pkgsmith/pkg/config"
	"github.com/matzehuels/pkgsmith/pkg/registry/resolve"
)

// appName is the application name used for directories and display.
const appName = "pkgsmith"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	noColor    bool
}

// New creates a CLI with default configuration and a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pkgsmith builds Arch Linux packages in CI",
		Long: `Pkgsmith is a CI helper for Arch Linux packaging: it reads PKGBUILD
manifests without executing them, installs their dependencies, runs the
build through an AUR helper, and collects the artifacts for upload.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.noColor {
				os.Setenv("NO_COLOR", "1")
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default pkgsmith.toml in cwd or XDG config dir)")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.artifactsCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the configuration once flags are parsed.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// newCache selects the cache backend for registry lookups: Redis when
// configured, the file cache otherwise, NullCache when caching is off or
// no backend can be set up.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if url := c.Config.Registry.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(url)
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, falling back to file cache", "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// newResolver creates the registry resolver for preflight lookups. The
// returned backend must be closed after use.
func (c *CLI) newResolver(noCache bool) (*resolve.Resolver, cache.Cache) {
	backend := c.newCache(noCache)
	return resolve.New(backend, c.Config.Registry.CacheTTL.Duration, c.Logger), backend
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/pkgsmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Package config loads pkgsmith configuration from TOML.
//
// Configuration is optional: every field has a default suited to a CI
// builder container. When present, a pkgsmith.toml is looked up in the
// working directory, then under $XDG_CONFIG_HOME/pkgsmith/ (falling back to
// ~/.config/pkgsmith/). An explicit path always wins.
//
//	[pacman]
//	primary = "paru"
//	fallback = "pacman"
//
//	[build]
//	use_ccache = true
//
//	[artifacts]
//	output_dir = "artifacts"
//
//	[registry]
//	cache_ttl = "6h"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pkgsmith/pkg/errors"
)

// FileName is the configuration file pkgsmith looks for.
const FileName = "pkgsmith.toml"

// appName is used for the XDG config directory.
const appName = "pkgsmith"

// Duration decodes TOML strings like "6h" or "30m" into a time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the root configuration.
type Config struct {
	Pacman    PacmanConfig    `toml:"pacman"`
	Build     BuildConfig     `toml:"build"`
	Artifacts ArtifactsConfig `toml:"artifacts"`
	Registry  RegistryConfig  `toml:"registry"`
}

// PacmanConfig controls how dependencies are installed.
type PacmanConfig struct {
	// Primary is the preferred package manager binary.
	Primary string `toml:"primary"`
	// Fallback is used (via sudo) when Primary is not installed.
	Fallback string `toml:"fallback"`
	// InstallArgs are passed to the package manager for dependency installs.
	InstallArgs []string `toml:"install_args"`
	// HandleRustConflict resolves the rust/rustup provider conflict before
	// installing (see the deps command).
	HandleRustConflict bool `toml:"handle_rust_conflict"`
}

// BuildConfig controls the package build.
type BuildConfig struct {
	// Clean removes previous build residue before building.
	Clean bool `toml:"clean"`
	// Sign passes --sign to the build so packages are GPG-signed.
	Sign bool `toml:"sign"`
	// UseCcache exports CCACHE_DIR for the build.
	UseCcache bool `toml:"use_ccache"`
	// CcacheDir is the compiler cache location.
	CcacheDir string `toml:"ccache_dir"`
	// BuildArgs are passed to the package manager to build in place.
	BuildArgs []string `toml:"build_args"`
}

// ArtifactsConfig controls artifact collection.
type ArtifactsConfig struct {
	// OutputDir receives collected artifacts.
	OutputDir string `toml:"output_dir"`
	// VersionFile is the version metadata file name.
	VersionFile string `toml:"version_file"`
	// Patterns name the files worth collecting from the work dir.
	Patterns []string `toml:"patterns"`
	// PreserveSources copies (instead of moves) PKGBUILD and .SRCINFO.
	PreserveSources bool `toml:"preserve_sources"`
}

// RegistryConfig controls dependency preflight lookups.
type RegistryConfig struct {
	// CacheTTL is how long registry responses are cached.
	CacheTTL Duration `toml:"cache_ttl"`
	// RedisURL selects a shared Redis cache (redis://host:port/db) for
	// runners that share lookups across CI jobs. Empty uses the file cache.
	RedisURL string `toml:"redis_url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pacman: PacmanConfig{
			Primary:            "paru",
			Fallback:           "pacman",
			InstallArgs:        []string{"-S", "--noconfirm", "--needed", "--asdeps"},
			HandleRustConflict: true,
		},
		Build: BuildConfig{
			Clean:     false,
			Sign:      false,
			UseCcache: true,
			CcacheDir: "/home/builder/.ccache",
			BuildArgs: []string{"-B", "--noconfirm"},
		},
		Artifacts: ArtifactsConfig{
			OutputDir:       "artifacts",
			VersionFile:     "version.env",
			Patterns:        []string{"*.pkg.tar.*", "*.log", "PKGBUILD", ".SRCINFO"},
			PreserveSources: true,
		},
		Registry: RegistryConfig{
			CacheTTL: Duration{6 * time.Hour},
		},
	}
}

// Load reads configuration from path over the defaults. An empty path
// searches the standard locations and returns pure defaults when no file
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = find()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "loading config %s", path)
	}

	return cfg, nil
}

// Validate checks that the manifest and working directory a run will use
// exist before any command is spawned.
func Validate(manifestPath, workDir string) error {
	if _, err := os.Stat(manifestPath); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", manifestPath)
	}
	info, err := os.Stat(workDir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "working directory %s", workDir)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "working directory %s is not a directory", workDir)
	}
	return nil
}

// find returns the first config file present in the search path.
func find() string {
	candidates := []string{FileName}
	if dir := configDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, FileName))
	}

	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && fi.Mode().IsRegular() {
			return c
		}
	}
	return ""
}

// configDir returns the XDG config directory (~/.config/pkgsmith/).
func configDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

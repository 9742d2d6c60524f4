// Package deps installs build dependencies with the system package manager.
//
// The installer prefers an AUR-capable helper (paru by default) and falls
// back to plain pacman through sudo when the helper isn't available. Build
// containers that manage their Rust toolchain through rustup need the
// rust/rustup conflict resolved before installation, because installing the
// repo rust package alongside rustup breaks cargo.
package deps

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgsmith/pkg/config"
	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
	"github.com/matzehuels/pkgsmith/pkg/run"
)

// rustToolchain names the packages that conflict with a rustup-managed
// toolchain.
var rustToolchain = map[string]bool{
	"rust":   true,
	"rustup": true,
	"cargo":  true,
}

// Installer installs the dependencies of a package manifest.
type Installer struct {
	Config config.PacmanConfig
	Runner *run.Runner
	Logger *log.Logger

	// lookPath overrides binary detection in tests.
	lookPath func(string) bool
}

// NewInstaller creates an Installer with the given package manager
// configuration. Pass nil for logger to use the default logger.
func NewInstaller(cfg config.PacmanConfig, runner *run.Runner, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = run.New(logger)
	}
	return &Installer{Config: cfg, Runner: runner, Logger: logger}
}

// Install installs all dependencies of the manifest: depends, makedepends,
// and checkdepends. Runtime dependencies are installed explicitly because
// makepkg only verifies their presence.
//
// Returns nil without running anything when the manifest declares no
// dependencies.
func (i *Installer) Install(ctx context.Context, m *pkgbuild.Info) error {
	specs := m.AllDependencies()

	if i.Config.HandleRustConflict {
		kept, dropped := ResolveRustConflict(specs, i.commandExists("rustup"))
		if len(dropped) > 0 {
			i.Logger.Info("resolved rust toolchain conflict", "dropped", dropped)
		}
		specs = kept
	}

	if len(specs) == 0 {
		i.Logger.Info("no dependencies to install", "package", m.Name)
		return nil
	}

	// Specs come from an unexecuted manifest and end up on a command line.
	for _, spec := range specs {
		if err := errors.ValidateDependencySpec(spec); err != nil {
			return err
		}
	}

	name, args := i.command(specs)
	if name == "" {
		return errors.New(errors.ErrCodeCommandNotFound, "no package manager available: tried %s and %s", i.Config.Primary, i.Config.Fallback).
			WithHint("install %s or point [pacman] in %s at an installed manager", i.Config.Primary, config.FileName)
	}

	i.Logger.Info("installing dependencies", "count", len(specs), "manager", name)
	return i.Runner.Run(ctx, name, args...)
}

// ResolveRustConflict adjusts a dependency list for containers that manage
// Rust through rustup.
//
// When the list names rust or rustup, all toolchain packages (rust, rustup,
// cargo) are removed. If the rustup binary is already installed the
// toolchain is assumed present; otherwise a single rustup entry is added
// back so the toolchain gets installed exactly once. Version constraints
// on toolchain entries are ignored for matching.
func ResolveRustConflict(specs []string, rustupInstalled bool) (kept, dropped []string) {
	conflict := false
	for _, spec := range specs {
		name := errors.SpecName(spec)
		if name == "rust" || name == "rustup" {
			conflict = true
			break
		}
	}
	if !conflict {
		return specs, nil
	}

	for _, spec := range specs {
		if rustToolchain[errors.SpecName(spec)] {
			dropped = append(dropped, spec)
			continue
		}
		kept = append(kept, spec)
	}
	if !rustupInstalled {
		kept = append(kept, "rustup")
	}
	return kept, dropped
}

// command picks the package manager invocation. The primary manager runs
// as-is; the fallback goes through sudo unless already running as root.
// Returns an empty name when neither manager is installed.
func (i *Installer) command(specs []string) (string, []string) {
	args := append(append([]string{}, i.Config.InstallArgs...), specs...)

	if i.commandExists(i.Config.Primary) {
		return i.Config.Primary, args
	}
	if !i.commandExists(i.Config.Fallback) {
		return "", nil
	}
	if os.Geteuid() != 0 {
		return "sudo", append([]string{i.Config.Fallback}, args...)
	}
	return i.Config.Fallback, args
}

func (i *Installer) commandExists(name string) bool {
	if i.lookPath != nil {
		return i.lookPath(name)
	}
	return run.CommandExists(name)
}

// Package build runs the package build inside a package directory.
//
// Building goes through the AUR helper (paru -B by default), which wraps
// makepkg and resolves AUR build dependencies on the way. The builder
// refuses to fall back to bare makepkg: that would silently change
// dependency resolution semantics, so a missing helper is an error.
package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgsmith/pkg/artifacts"
	"github.com/matzehuels/pkgsmith/pkg/config"
	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/run"
)

// residueDirs are created by makepkg during a build and removed by Clean.
var residueDirs = []string{"src", "pkg"}

// Builder runs package builds.
type Builder struct {
	Pacman config.PacmanConfig
	Config config.BuildConfig
	Logger *log.Logger

	// lookPath overrides binary detection in tests.
	lookPath func(string) bool
}

// NewBuilder creates a Builder. Pass nil for logger to use the default
// logger.
func NewBuilder(pacman config.PacmanConfig, build config.BuildConfig, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{Pacman: pacman, Config: build, Logger: logger}
}

// Build runs the package build in dir. The directory must contain the
// package manifest. Build output streams to the terminal.
//
// Returns COMMAND_NOT_FOUND when the build helper isn't installed and
// BUILD_FAILED when the build itself fails.
func (b *Builder) Build(ctx context.Context, dir string) error {
	helper := b.Pacman.Primary
	if !b.commandExists(helper) {
		return errors.New(errors.ErrCodeCommandNotFound, "build helper %s is not installed", helper).
			WithHint("install %s or set [pacman] primary in %s", helper, config.FileName)
	}

	var env []string
	if b.Config.UseCcache && b.Config.CcacheDir != "" {
		env = append(env, "CCACHE_DIR="+b.Config.CcacheDir)
		b.Logger.Debug("ccache enabled", "dir", b.Config.CcacheDir)
	}

	runner := &run.Runner{Dir: dir, Env: env, Logger: b.Logger}

	b.Logger.Info("building package", "dir", dir, "helper", helper)
	if err := runner.Run(ctx, helper, b.buildArgs()...); err != nil {
		return errors.Wrap(errors.ErrCodeBuildFailed, err, "build failed in %s", dir)
	}
	return b.verify(dir)
}

// verify confirms the build left package files behind. Helpers can exit
// zero after a failed package() step, so success is judged by output.
func (b *Builder) verify(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pkg.tar.*"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "checking build output in %s", dir)
	}

	var packages []string
	for _, m := range matches {
		if artifacts.IsPackage(filepath.Base(m)) {
			packages = append(packages, m)
		}
	}
	if len(packages) == 0 {
		var contents []string
		if entries, err := os.ReadDir(dir); err == nil {
			for _, e := range entries {
				contents = append(contents, e.Name())
			}
		}
		b.Logger.Error("build produced no packages", "dir", dir, "contents", contents)
		return errors.New(errors.ErrCodeBuildFailed, "no packages produced in %s", dir).
			WithHint("check the helper output above for a failed package() step or a PKGDEST pointing elsewhere")
	}

	for _, p := range packages {
		var size int64
		if info, err := os.Stat(p); err == nil {
			size = info.Size()
		}
		b.Logger.Info("built package", "file", filepath.Base(p), "size", size)
	}
	return nil
}

// buildArgs composes the helper arguments from the configuration.
func (b *Builder) buildArgs() []string {
	args := append([]string{}, b.Config.BuildArgs...)
	if b.Config.Sign {
		args = append(args, "--sign")
	}
	return args
}

// Clean removes previously built packages and makepkg's src/ and pkg/
// residue from dir, returning how many package files were deleted.
func (b *Builder) Clean(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pkg.tar.*"))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "cleaning %s", dir)
	}

	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return removed, errors.Wrap(errors.ErrCodeInternal, err, "removing %s", m)
		}
		removed++
	}

	for _, sub := range residueDirs {
		if err := os.RemoveAll(filepath.Join(dir, sub)); err != nil {
			return removed, errors.Wrap(errors.ErrCodeInternal, err, "removing %s", sub)
		}
	}

	b.Logger.Debug("cleaned package directory", "dir", dir, "removed", removed)
	return removed, nil
}

func (b *Builder) commandExists(name string) bool {
	if b.lookPath != nil {
		return b.lookPath(name)
	}
	return run.CommandExists(name)
}

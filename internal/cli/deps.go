package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/pkg/deps"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
	"github.com/matzehuels/pkgsmith/pkg/run"
)

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	var (
		checkOnly bool
		refresh   bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "deps [path]",
		Short: "Install the build dependencies of a PKGBUILD",
		Long: `Install the build dependencies of a PKGBUILD.

All three dependency classes (depends, makedepends, checkdepends) are
installed through pacman. On rustup-based runners the rust package is
dropped from the set to avoid the rust/rustup conflict.

With --check, nothing is installed: the dependencies are classified
against the official repositories and the AUR instead, which is a cheap
preflight before a long build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := c.resolveManifest(argOrEmpty(args))
			if err != nil {
				return err
			}
			info, err := pkgbuild.Parse(manifest)
			if err != nil {
				return err
			}

			if checkOnly {
				printInfo("Checking %d dependencies for %s", len(info.AllDependencies()), info.Name)
				return c.runPreflight(cmd.Context(), info, refresh, noCache)
			}

			runner := run.New(c.Logger)
			installer := deps.NewInstaller(c.Config.Pacman, runner, c.Logger)
			prog := newProgress(c.Logger)
			if err := installer.Install(cmd.Context(), info); err != nil {
				prog.fail("Dependency installation failed")
				return err
			}
			prog.done(fmt.Sprintf("Installed dependencies for %s", info.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "classify dependencies instead of installing them")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached registry responses")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the registry cache")

	return cmd
}

// runPreflight classifies every dependency of the manifest against the
// registries and prints one line per package.
func (c *CLI) runPreflight(ctx context.Context, info *pkgbuild.Info, refresh, noCache bool) error {
	specs := info.AllDependencies()
	if len(specs) == 0 {
		printInfo("No dependencies to resolve")
		return nil
	}

	resolver, backend := c.newResolver(noCache)
	defer backend.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Resolving %d dependencies...", len(specs)))
	spinner.Start()
	resolutions, err := resolver.ResolveAll(ctx, specs, refresh)
	if err != nil {
		spinner.StopWithError("Resolution failed")
		return err
	}
	spinner.Stop()

	printNewline()
	unknown := printResolutions(resolutions)
	if unknown > 0 {
		printWarning("%d dependencies not found in any registry; groups and virtual packages are expected here", unknown)
	}
	return nil
}

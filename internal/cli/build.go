package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/pkg/build"
	"github.com/matzehuels/pkgsmith/pkg/config"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		clean bool
		sign  bool
	)

	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Build the package from a PKGBUILD",
		Long: `Build the package from a PKGBUILD.

The build runs in the manifest's directory through the configured AUR
helper (paru by default, makepkg as fallback). The command fails when the
helper exits non-zero or produces no *.pkg.tar.* files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := c.resolveManifest(argOrEmpty(args))
			if err != nil {
				return err
			}
			dir := filepath.Dir(manifest)
			if err := config.Validate(manifest, dir); err != nil {
				return err
			}
			info, err := pkgbuild.Parse(manifest)
			if err != nil {
				return err
			}

			buildCfg := c.Config.Build
			if cmd.Flags().Changed("clean") {
				buildCfg.Clean = clean
			}
			if cmd.Flags().Changed("sign") {
				buildCfg.Sign = sign
			}

			builder := build.NewBuilder(c.Config.Pacman, buildCfg, c.Logger)
			if buildCfg.Clean {
				removed, err := builder.Clean(dir)
				if err != nil {
					return err
				}
				if removed > 0 {
					printInfo("Removed %d stale package files", removed)
				}
			}

			printInfo("Building %s %s", info.Name, info.FullVersion())
			prog := newProgress(c.Logger)
			if err := builder.Build(cmd.Context(), dir); err != nil {
				prog.fail(fmt.Sprintf("Build of %s failed", info.Name))
				return err
			}
			prog.done(fmt.Sprintf("Built %s %s", info.Name, info.FullVersion()))
			printNextStep("Collect the artifacts", appName+" artifacts "+dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "remove previous package files before building")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the built packages with GPG")

	return cmd
}

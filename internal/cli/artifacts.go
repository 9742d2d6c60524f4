package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/pkg/artifacts"
)

// artifactsCommand creates the artifacts command.
func (c *CLI) artifactsCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "artifacts [path]",
		Short: "Collect build artifacts into the output directory",
		Long: `Collect build artifacts into the output directory.

Package files and build logs are moved out of the package directory,
manifest sources are copied so the directory stays buildable. A
collection.json receipt records what was gathered. The command fails when
no package files are found, since a build that produced only logs did not
succeed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := c.resolveManifest(argOrEmpty(args))
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = c.Config.Artifacts.OutputDir
			}

			collector := &artifacts.Collector{
				OutputDir:       outputDir,
				Patterns:        c.Config.Artifacts.Patterns,
				PreserveSources: c.Config.Artifacts.PreserveSources,
				Logger:          c.Logger,
			}
			receipt, err := collector.Collect(filepath.Dir(manifest))
			if err != nil {
				return err
			}

			printSummary(receipt.Summary)
			for _, f := range receipt.Files {
				printFile(filepath.Join(outputDir, f.Name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for collected artifacts (default from config)")

	return cmd
}

package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
	"github.com/matzehuels/pkgsmith/pkg/versionfile"
)

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version [path]",
		Short: "Write a version.env file for downstream CI jobs",
		Long: `Write a version.env file for downstream CI jobs.

The file holds the package name and version in KEY=value form so release
and upload jobs can source it without re-parsing the PKGBUILD. On GitLab
runners the commit tag and job id are recorded as well.`,
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
			if output == "" {
				output = filepath.Join(filepath.Dir(manifest), c.Config.Artifacts.VersionFile)
			}

			env := versionfile.DetectEnvironment()
			if versionfile.IsGitLabCI() {
				c.Logger.Debug("gitlab build context", "vars", versionfile.GitLabVars())
			}

			vf := versionfile.New(info, env, time.Now())
			if err := vf.WriteFile(output); err != nil {
				return err
			}

			fmt.Print(vf.Render())
			printSuccess("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "version file path (default version.env next to the PKGBUILD)")

	return cmd
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
	"github.com/matzehuels/pkgsmith/pkg/render"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output      string
		constraints bool
	)

	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Render the dependency graph of a PKGBUILD",
		Long: `Render the dependency graph of a PKGBUILD.

Without --output the graph is printed as Graphviz DOT on stdout. With
--output the format follows the file extension: .dot and .gv write the
DOT source, .svg renders it with the embedded Graphviz engine.`,
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

			dot := render.ToDOT(info, render.Options{Constraints: constraints})
			if output == "" {
				fmt.Print(dot)
				return nil
			}

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				spinner := newSpinner(cmd.Context(), "Rendering graph...")
				spinner.Start()
				data, err = render.RenderSVG(dot)
				spinner.Stop()
				if err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q (use .dot or .svg)", ext)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "writing %s", output)
			}
			printSuccess("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .gv, or .svg; default stdout)")
	cmd.Flags().BoolVar(&constraints, "constraints", false, "label nodes with version constraints")

	return cmd
}

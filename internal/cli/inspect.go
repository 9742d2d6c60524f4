package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/pkg/errors"
	"github.com/matzehuels/pkgsmith/pkg/pkgbuild"
	"github.com/matzehuels/pkgsmith/pkg/versionfile"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		format      string
		resolveDeps bool
		refresh     bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Parse a PKGBUILD and show its metadata",
		Long: `Parse a PKGBUILD and show its metadata.

The manifest is read textually, never executed: name, version, release,
architectures, and the three dependency classes are extracted with a
restricted parser that is safe to run on untrusted manifests.

With --resolve, every dependency is also classified against the official
repositories and the AUR.`,
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

			switch format {
			case "text":
				printManifest(manifest, info)
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(info); err != nil {
					return err
				}
			case "env":
				fmt.Print(versionfile.New(info, versionfile.DetectEnvironment(), time.Now()).Render())
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (text, json, env)", format)
			}

			if resolveDeps {
				printNewline()
				return c.runPreflight(cmd.Context(), info, refresh, noCache)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, env")
	cmd.Flags().BoolVar(&resolveDeps, "resolve", false, "classify dependencies against the registries")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached registry responses")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the registry cache")

	return cmd
}

// printManifest renders the parsed metadata as aligned key/value lines.
func printManifest(path string, info *pkgbuild.Info) {
	printKeyValue("Manifest", path)
	printKeyValue("Package", info.Name)
	printKeyValue("Version", info.FullVersion())
	printKeyValue("Arch", strings.Join(info.Arch, " "))
	printDepList("Depends", info.Depends)
	printDepList("MakeDepends", info.MakeDepends)
	printDepList("CheckDepends", info.CheckDepends)

	for _, key := range []string{pkgbuild.KeyName, pkgbuild.KeyVersion, pkgbuild.KeyRelease} {
		if info.FieldSource(key) == pkgbuild.SourceFallback {
			printWarning("%s was recovered by the loose fallback parser, double-check the manifest", key)
		}
	}
}

// printDepList prints a dependency class line, dimming empty classes.
func printDepList(label string, specs []string) {
	if len(specs) == 0 {
		printKeyValue(label, StyleDim.Render("none"))
		return
	}
	printKeyValue(label, strings.Join(specs, " "))
}

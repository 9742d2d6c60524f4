package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsmith/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve collected artifacts over HTTP",
		Long: `Serve collected artifacts over HTTP.

The server exposes a JSON package index at /packages.json and the raw
files under /repo/, so another machine can install a freshly built
package with pacman -U. It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = c.Config.Artifacts.OutputDir
			}

			srv, err := server.New(server.Options{
				Addr:   addr,
				Dir:    dir,
				Logger: c.Logger,
			})
			if err != nil {
				return err
			}
			srv.Start()

			printInfo("Serving %s on %s", dir, srv.URL())
			printDetail("package index at %s/packages.json", srv.URL())
			printDetail("press Ctrl+C to stop")

			<-cmd.Context().Done()
			printNewline()
			return srv.Stop()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVarP(&dir, "output", "o", "", "artifacts directory to serve (default from config)")

	return cmd
}

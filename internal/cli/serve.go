package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spriteflow/internal/server"
)

// serveCommand runs the HTTP front end until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxUpload int64
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve spritesheet builds over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			printInfo("Listening on %s", addr)
			srv := server.New(server.Config{
				Addr:           addr,
				Registry:       c.newRegistry(),
				Logger:         logger,
				MaxUploadBytes: maxUpload,
				BuildTimeout:   timeout,
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", server.DefaultMaxUploadBytes, "maximum request body in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultBuildTimeout, "per-request build timeout")

	return cmd
}

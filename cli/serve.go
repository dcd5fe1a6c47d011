package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"willchat/config"
	"willchat/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat store over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if !config.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			addr := e.cfg.Server.Listen
			if listen != "" {
				addr = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Listening on %s\n", addr)
			return server.New(e.store, e.pro).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from [server] listen)")
	return cmd
}

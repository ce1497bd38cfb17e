// Serve command: runs the REST API until interrupted.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/app"
	"github.com/mesh-intelligence/realdesk/internal/logging"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			if f.verbose {
				cfg.Log.Level = "debug"
			}

			log, err := logging.New(cfg.Log.Level, cfg.Log.Format, "realdesk")
			if err != nil {
				return err
			}
			defer log.Sync()

			log.Info("starting realdesk",
				zap.String("addr", cfg.HTTP.Addr),
				zap.String("backend", cfg.Store.Backend),
				zap.Bool("auth_required", cfg.Auth.Required))
			return app.Run(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fieldstack/simport/internal/config"
	"github.com/fieldstack/simport/internal/engine"
	"github.com/fieldstack/simport/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Long: `Run the HTTP service.

Endpoints:
  GET  /         health and the active template definition (JSON)
  POST /process  multipart upload (form field "file"); responds with the
                 mapped template CSV or an error-report CSV`,
		Example: `  # Serve on the configured port
  simport serve

  # Serve on port 9000
  simport serve --port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := config.LoggerFromContext(cmd.Context())

			srv := server.New(server.Config{
				Engine:      engine.New(cfg.Schema(), logger),
				Port:        cfg.Server.Port,
				MaxUploadMB: cfg.Server.MaxUploadMB,
				Version:     version,
				Logger:      logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx)
		},
	}
}

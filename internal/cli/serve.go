package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/swamp-dev/eunoia/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve exposes records and reports as a JSON API.

Callers identify themselves with the X-User-ID header; add ?mode=sample
to any route to use the sample dataset instead. Authentication is left
to a proxy in front of the server.

Examples:
  eunoia serve
  eunoia serve --addr :9090
  EUNOIA_STORAGE_BACKEND=redis eunoia serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	srv := httpapi.New(a.records, a.reports, httpapi.Options{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         logger.With("component", "httpapi"),
	})
	return srv.ListenAndServe(ctx, addr)
}

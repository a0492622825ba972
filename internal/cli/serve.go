package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web page and JSON API",
	Long: `Serve the PantryChef web page, the JSON API under /api/v1 and the
server-sent event stream that redraws open pages when a session changes.

The Gemini API key must be set in GEMINI_API_KEY or GOOGLE_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.ServerPort = servePort
	}
	observability.Setup(cmd.ErrOrStderr(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(cfg, a.HTTPDeps())
	if err != nil {
		return err
	}

	cmd.Printf("PantryChef listening on http://%s\n", cfg.Addr())
	return srv.Run(ctx)
}

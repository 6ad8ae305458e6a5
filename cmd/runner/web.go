package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/platform/web"
)

var (
	flagWebAddr   string
	flagFrameRate int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser client",
	Long: `Serve a canvas client and stream runs to it over websockets.

Every browser tab gets its own session. Open the page with ?name=<player>
to sign in and save scores.

Examples:
  runner web
  runner web --addr :9000 --frame-rate 60
  runner web --lanes duo --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().IntVar(&flagFrameRate, "frame-rate", web.DefaultFrameRate, "Frames per second sent to each browser")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}
	theme, err := selectedTheme()
	if err != nil {
		return err
	}

	logger := newLogger("runner-web")
	opts := web.Options{
		Config:    cfg,
		TickRate:  flagFPS,
		FrameRate: flagFrameRate,
		Seed:      flagSeed,
		Theme:     theme,
		Logger:    logger,
	}
	if store := openStore(logger); store != nil {
		defer store.Close()
		opts.Store = store
	}

	srv, err := web.NewServer(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving lane-runner on http://localhost%s\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx, flagWebAddr)
}


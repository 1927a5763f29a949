// Package main is the entry point for the campus signage processes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/api"
	"github.com/jwulff/campuscast/internal/config"
	"github.com/jwulff/campuscast/internal/console"
	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/logger"
	"github.com/jwulff/campuscast/internal/metrics"
	"github.com/jwulff/campuscast/internal/pixoo"
	"github.com/jwulff/campuscast/internal/player"
	"github.com/jwulff/campuscast/internal/render"
	"github.com/jwulff/campuscast/internal/state"
	"github.com/jwulff/campuscast/internal/textgen"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "display":
		if len(os.Args) < 3 {
			fmt.Println("Error: device ID required")
			fmt.Println("Usage: signage display <deviceID>")
			os.Exit(1)
		}
		err = runDisplay(ctx, cfg, os.Args[2])
	case "console":
		err = runConsole(ctx, cfg)
	case "preview":
		if len(os.Args) < 3 {
			fmt.Println("Error: device ID required")
			fmt.Println("Usage: signage preview <deviceID>")
			os.Exit(1)
		}
		err = runPreview(ctx, cfg, os.Args[2])
	case "status":
		err = runStatus(ctx, cfg)
	default:
		showUsage()
		return
	}

	if err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("Usage:")
	fmt.Println("  signage display <deviceID>  - Run a display terminal")
	fmt.Println("  signage console             - Serve the operator console API")
	fmt.Println("  signage preview <deviceID>  - Print the device's current screen once")
	fmt.Println("  signage status              - Print dashboard counters")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SIGNAGE_CONFIG        - Path to a YAML config file (optional)")
	fmt.Println("  SIGNAGE_STORE_DRIVER  - sqlite, nats, redis or memory")
	fmt.Println("  PIXOO_ADDR            - Pixoo address for display output (optional)")
	fmt.Println("  GEMINI_API_KEY        - Enables notice drafting in the console (optional)")
}

func openStore(ctx context.Context, cfg config.Config) (*state.Store, func(), error) {
	log := logger.WithComponent("store")
	backend, err := config.OpenBackend(ctx, cfg.Store, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("driver", cfg.Store.Driver).Str("origin", backend.Origin()).Msg("shared state opened")
	return state.New(backend, log), func() { _ = backend.Close() }, nil
}

func runDisplay(ctx context.Context, cfg config.Config, deviceID string) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	log := logger.WithDevice("display", deviceID)

	sinks := render.Multi{render.NewTerminal(os.Stdout, cfg.Display.TerminalWidth)}
	if cfg.Display.PixooAddr != "" {
		client := pixoo.NewClient(cfg.Display.PixooAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Display.PixooAddr).Msg("pixoo not reachable, frames will be retried")
		}
		sinks = append(sinks, render.NewPixoo(client))
	}

	if cfg.Display.MetricsListen != "" {
		go serveMetrics(ctx, cfg.Display.MetricsListen, log)
	}

	p := player.New(player.Config{
		DeviceID:          deviceID,
		HeartbeatInterval: cfg.Display.HeartbeatInterval,
		RefreshInterval:   cfg.Display.RefreshInterval,
	}, store, sinks, clock.New(), log)

	log.Info().Msg("display starting")
	return p.Run(ctx)
}

func runConsole(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	log := logger.WithComponent("console")
	assist := textgen.NewClient(cfg.TextGen, logger.WithComponent("textgen"))
	svc := console.New(store, assist, cfg.Console.Config, log)

	srv := &http.Server{
		Addr:              cfg.Console.Listen,
		Handler:           api.NewRouter(svc, logger.WithComponent("api")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, log)
}

func runPreview(ctx context.Context, cfg config.Config, deviceID string) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := store.Snapshot(ctx)
	if err != nil {
		return err
	}
	screen := player.Preview(snap, deviceID, time.Now())

	fmt.Println(render.NewTerminal(os.Stdout, cfg.Display.TerminalWidth).Render(screen))
	fmt.Println()
	fmt.Println("64x64 Frame Preview:")
	fmt.Println()
	printFrameASCII(os.Stdout, render.ComposeScreen(screen))
	fmt.Println()
	fmt.Println("Legend: █=bright ▓=medium ▒=dim ░=faint ·=very dim (space)=off")
	return nil
}

func runStatus(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := console.New(store, nil, cfg.Console.Config, logger.WithComponent("console"))
	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	devices, err := svc.ListDevices(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Devices:         %d (%d reachable)\n", stats.Devices, stats.ReachableDevices)
	fmt.Printf("Active notices:  %d (%d urgent)\n", stats.ActiveNotices, stats.UrgentNotices)
	fmt.Printf("Content items:   %d\n", stats.ContentItems)
	fmt.Println()
	for _, d := range devices {
		status := "offline"
		if d.Reachable {
			status = "online"
		}
		showing := d.NowShowingTitle
		if showing == "" {
			showing = "-"
		}
		fmt.Printf("  %-8s %-22s %-12s %-8s %s\n", d.ID, d.Name, d.Group, status, showing)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := serve(ctx, srv, log); err != nil {
		log.Warn().Err(err).Msg("metrics server stopped")
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// printFrameASCII renders the frame as ASCII art.
func printFrameASCII(w io.Writer, frame *domain.Frame) {
	fmt.Fprint(w, "  ┌")
	for x := 0; x < frame.Width; x++ {
		fmt.Fprint(w, "─")
	}
	fmt.Fprintln(w, "┐")

	for y := 0; y < frame.Height; y++ {
		fmt.Fprintf(w, "%2d│", y)
		for x := 0; x < frame.Width; x++ {
			pixel := frame.GetPixel(x, y)
			if pixel == nil {
				fmt.Fprint(w, " ")
				continue
			}
			fmt.Fprint(w, shade(*pixel))
		}
		fmt.Fprintln(w, "│")
	}

	fmt.Fprint(w, "  └")
	for x := 0; x < frame.Width; x++ {
		fmt.Fprint(w, "─")
	}
	fmt.Fprintln(w, "┘")
}

func shade(pixel domain.RGB) string {
	brightness := (int(pixel.R) + int(pixel.G) + int(pixel.B)) / 3
	switch {
	case brightness > 200:
		return "█"
	case brightness > 150:
		return "▓"
	case brightness > 100:
		return "▒"
	case brightness > 50:
		return "░"
	case brightness > 10:
		return "·"
	default:
		return " "
	}
}

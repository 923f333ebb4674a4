package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ducminhle1904/ta-engine/cmd/common"
	"github.com/ducminhle1904/ta-engine/internal/api"
	"github.com/ducminhle1904/ta-engine/internal/config"
	"github.com/ducminhle1904/ta-engine/internal/monitoring"
	"github.com/ducminhle1904/ta-engine/pkg/data"
)

const (
	AppName         = "TA Server"
	shutdownTimeout = 10 * time.Second
)

func main() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	commonFlags := common.RegisterCommonFlags(fs)
	port := fs.Int("port", 0, "HTTP port (default HTTP_PORT or 8080)")

	usage := common.NewUsageFormatter(AppName, "HTTP API for indicator tables").
		AddExample("server -port 8080", "Serve GET /api/v1/indicators, /healthz and /metrics")
	fs.Usage = func() { usage.PrintUsage(os.Stderr, fs) }
	fs.Parse(os.Args[1:])

	if common.CheckHelpAndVersion(AppName, commonFlags, usage, fs) {
		return
	}
	common.SetupLogger(commonFlags)

	cfg, err := common.LoadConfig(commonFlags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	common.ApplyLogLevel(commonFlags, cfg.LogLevel)
	if *port != 0 {
		cfg.Server.Port = *port
	}
	validator := common.NewFlagValidator().
		ValidateInt("port", cfg.Server.Port, 1, 65535).
		ValidateInt("prometheus port", cfg.Server.PrometheusPort, 0, 65535)
	if validator.HasErrors() {
		validator.PrintErrors()
		os.Exit(2)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// serve runs the API until ctx is cancelled, then drains in-flight requests
func serve(ctx context.Context, cfg *config.Config) error {
	dm, err := data.NewDataManager(cfg)
	if err != nil {
		return err
	}
	defer dm.Close()

	handler := api.NewHandler(dm, api.Defaults{
		Start:  cfg.Analysis.Start,
		End:    cfg.Analysis.End,
		Params: cfg.Analysis.Params,
	}, monitoring.NewHealthChecker())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	servers := []*http.Server{srv}
	if p := cfg.Server.PrometheusPort; p > 0 && p != cfg.Server.Port {
		servers = append(servers, &http.Server{
			Addr:              fmt.Sprintf(":%d", p),
			Handler:           monitoring.NewMetricsHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		s := s
		go func() {
			log.Printf("🚀 %s %s listening on %s (provider: %s)", AppName, common.GetFullVersion(), s.Addr, dm.GetProvider().GetName())
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	log.Printf("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown %s: %w", s.Addr, err)
		}
	}
	if serveErr != nil {
		return serveErr
	}
	log.Printf("✅ Server stopped")
	return nil
}

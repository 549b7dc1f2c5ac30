package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	apihttp "clusterops/preflight/internal/api/http"
	"clusterops/preflight/internal/config"
	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/exitcode"
	"clusterops/preflight/internal/lib/logger/slogpretty"
	"clusterops/preflight/internal/probe"
	"clusterops/preflight/internal/publish"
	"clusterops/preflight/internal/registry"
	"clusterops/preflight/internal/report"
	"clusterops/preflight/internal/runner"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a config file (defaults to ./config/local.yaml)")
		jsonOut    = flag.Bool("json", false, "emit the report as JSON instead of text")
		serve      = flag.Bool("serve", false, "run as an HTTP service instead of a one-shot check")
	)
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(exitcode.ConfigError)
	}

	logger := setupLogger(cfg.Env)

	logger.Info("starting preflight",
		"env", cfg.Env,
		"cluster", cfg.Cluster.Name,
		"nodes", len(cfg.Precheck.Nodes),
	)

	reg, err := registry.BuildFromConfig(cfg)
	if err != nil {
		logger.Error("failed to build check registry", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	probes := buildProbes(cfg)
	run := runner.New(probes, logger, runner.Options{
		GlobalTimeout: cfg.Precheck.GlobalTimeout,
		CheckTimeout:  cfg.Precheck.CheckTimeout,
		MaxParallel:   cfg.Precheck.MaxParallel,
		Cluster:       cfg.Cluster.Name,
	})

	if *serve {
		serveHTTP(cfg, logger, run, reg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep := run.Run(ctx, reg)

	if *jsonOut {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			logger.Error("failed to render report", "error", err)
			os.Exit(exitcode.RuntimeError)
		}
	} else {
		if err := report.WriteText(os.Stdout, rep); err != nil {
			logger.Error("failed to render report", "error", err)
			os.Exit(exitcode.RuntimeError)
		}
	}

	publishReport(ctx, cfg, logger, rep)

	os.Exit(exitcode.FromReport(rep))
}

func serveHTTP(cfg *config.Config, logger *slog.Logger, run *runner.Runner, reg *registry.Registry) {
	runFn := func(c *gin.Context) domain.Report {
		rep := run.Run(c.Request.Context(), reg)
		publishReport(c.Request.Context(), cfg, logger, rep)
		return rep
	}

	controller := apihttp.NewPrecheckController(runFn, cfg.Cluster.Name)
	router := apihttp.NewRouter(controller)

	httpServer := &nethttp.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("starting precheck server", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(exitcode.RuntimeError)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down precheck server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("precheck server stopped gracefully")
}

func publishReport(ctx context.Context, cfg *config.Config, logger *slog.Logger, rep domain.Report) {
	if len(cfg.Kafka.Brokers) == 0 {
		return
	}

	publisher := publish.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	pubCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := publisher.PublishReport(pubCtx, rep); err != nil {
		logger.Error("failed to publish report", "error", err, "topic", cfg.Kafka.Topic)
		return
	}
	logger.Info("report published", "topic", cfg.Kafka.Topic, "run_id", rep.RunID)
}

func buildProbes(cfg *config.Config) probe.Set {
	return probe.Set{
		Pinger:   probe.NewICMPPinger(cfg.Precheck.PingCount, os.Geteuid() == 0),
		Resolver: probe.NewNetResolver(cfg.Precheck.DNSServer),
		Dialer:   probe.NewTCPDialer(),
		HTTP:     probe.NewHTTPClient(cfg.Precheck.InsecureTLS),
		Remote:   probe.NewSSHRunner(cfg.SSH.User, cfg.SSH.ConnectTimeout),
		Routes:   probe.NewIPRouteInspector(),
	}
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = setupPrettySlog()
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		logger = setupPrettySlog()
	}

	return logger
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stderr)

	return slog.New(handler)
}

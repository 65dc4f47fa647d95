package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/bkscholar/scholar/internal/instrumentation"
	"github.com/bkscholar/scholar/internal/logging"
	"github.com/bkscholar/scholar/internal/resources"
	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/students"
	"github.com/bkscholar/scholar/internal/tools"
)

// Supported transports.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

type serveOptions struct {
	transport string
	httpAddr  string
	headless  bool
	metrics   MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the calendar,
drive and student directory tools.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on --http-addr

Authorization:
  Google access is authorized lazily on the first tool call. The stored
  credential under $HOME/<tokenPathname> is refreshed automatically. When no
  usable credential exists, the consent page is opened in the browser.
  Use --headless on machines without a browser; run "scholar auth" once
  beforehand to store a credential.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServeEnv(cmd, &opts)
			if err := opts.validate(); err != nil {
				return err
			}
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", TransportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Never start the interactive browser authorization; only refresh the stored credential. Can also use SCHOLAR_HEADLESS env var.")
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyServeEnv fills options from the environment when the matching flag
// was not given explicitly.
func applyServeEnv(cmd *cobra.Command, opts *serveOptions) {
	flags := cmd.Flags()
	if !flags.Changed("headless") {
		if v, err := strconv.ParseBool(os.Getenv("SCHOLAR_HEADLESS")); err == nil {
			opts.headless = v
		}
	}
	if !flags.Changed("metrics") {
		if v, err := strconv.ParseBool(os.Getenv("METRICS_ENABLED")); err == nil {
			opts.metrics.Enabled = v
		}
	}
	if !flags.Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.metrics.Addr = addr
		}
	}
}

func (o serveOptions) validate() error {
	switch o.transport {
	case TransportStdio:
	case TransportStreamableHTTP:
		if o.httpAddr == "" {
			return errors.New("--http-addr is required for the streamable-http transport")
		}
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", o.transport, TransportStdio, TransportStreamableHTTP)
	}
	if o.metrics.Enabled && o.metrics.Addr == "" {
		return errors.New("--metrics-addr must not be empty when the metrics server is enabled")
	}
	return nil
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := globals.newLogger(os.Stderr)

	cfg, loader, err := globals.loadConfig()
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := shutdownContext()
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	manager := newCredentialManager(cfg, loader, credentialOptions{
		headless: opts.headless,
		prompt:   os.Stderr,
		logger:   logger,
		recorder: provider.Metrics(),
	})

	scOpts := []server.Option{
		server.WithHTTPClient(manager.HTTPClient(ctx)),
		server.WithAuthStatus(manager),
		server.WithMetrics(provider.Metrics()),
		server.WithAuditLogger(instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)),
		server.WithLogger(logger),
	}
	if cfg.DatabasePathname != "" {
		repo, err := students.OpenSQLite(ctx, cfg.DatabasePathname)
		if err != nil {
			return fmt.Errorf("failed to open student directory: %w", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logger.Warn("closing student directory failed", logging.Err(err))
			}
		}()
		scOpts = append(scOpts, server.WithStudentRepository(repo))
	} else {
		logger.Info("no databasePathname configured, student tools will report an error")
	}

	serverContext := server.NewServerContext(ctx, scOpts...)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("scholar", version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
	)

	registry := tools.NewRegistry()
	if err := registerAllTools(registry, serverContext); err != nil {
		return err
	}
	registry.Install(mcpSrv)
	if err := resources.RegisterResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}
	logger.Debug("tools registered", slog.Any("tools", registry.Names()))

	switch opts.transport {
	case TransportStdio:
		return runStdioServer(mcpSrv)
	default:
		metricsServer, err := startMetricsServer(opts.metrics, provider, logger)
		if err != nil {
			return err
		}
		if metricsServer != nil {
			defer func() {
				shutdownCtx, cancel := shutdownContext()
				defer cancel()
				if err := metricsServer.Shutdown(shutdownCtx); err != nil {
					logger.Warn("metrics server shutdown failed", logging.Err(err))
				}
			}()
		}
		return runStreamableHTTPServer(ctx, mcpSrv, serverContext, opts.httpAddr, logger)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// startMetricsServer binds the metrics listener synchronously, so address
// errors surface before the MCP transport starts. It returns nil when the
// metrics server is disabled or the exporter is not prometheus.
func startMetricsServer(config MetricsConfig, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	if !config.Enabled || !provider.Enabled() {
		return nil, nil
	}
	if provider.PrometheusHandler() == nil {
		logger.Info("metrics exporter is not prometheus, metrics server disabled")
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	ln, err := net.Listen("tcp", metricsServer.Addr())
	if err != nil {
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	}
	go func() {
		if err := metricsServer.Serve(ln); err != nil {
			logger.Error("metrics server stopped", logging.Err(err))
		}
	}()
	return metricsServer, nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string, logger *slog.Logger) error {
	httpServer := server.NewHTTPServer(mcpSrv, sc)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- httpServer.Serve(ln)
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := shutdownContext()
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return <-serverDone
	}
}

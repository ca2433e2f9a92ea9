// cogniserve-server exposes configured LLM agents over HTTP with
// synchronous and streaming (SSE) execution endpoints.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ahmad2b/cogniserve/internal/agents"
	"github.com/ahmad2b/cogniserve/internal/config"
	"github.com/ahmad2b/cogniserve/internal/logging"
	"github.com/ahmad2b/cogniserve/internal/observability"
	"github.com/ahmad2b/cogniserve/internal/runtime/claudesdk"
	server "github.com/ahmad2b/cogniserve/internal/server/http"
	"github.com/ahmad2b/cogniserve/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		configPath string
		host       string
		port       int
		manifest   string
	)

	root := &cobra.Command{
		Use:   "cogniserve-server",
		Short: "Serve LLM agents over per-agent run, stream and info endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("manifest") {
				cfg.AgentManifest = manifest
			}
			return run(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	root.Flags().StringVar(&host, "host", "0.0.0.0", "listen host")
	root.Flags().IntVarP(&port, "port", "p", 8000, "listen port")
	root.Flags().StringVarP(&manifest, "manifest", "m", "", "path to agent manifest (yaml)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ServerConfig) error {
	logging.Default().SetLevel(logging.ParseLevel(cfg.LogLevel))
	logger := logging.NewComponentLogger("Main")
	logger.Info("starting cogniserve on %s (env=%s)", cfg.Addr(), cfg.Environment)

	bound, err := loadAgents(cfg)
	if err != nil {
		return err
	}

	sessions, err := session.NewStore(cfg.SessionCapacity)
	if err != nil {
		return fmt.Errorf("create session store: %w", err)
	}
	metrics := observability.DefaultMetrics()

	runner := claudesdk.NewRunner(cfg.Runtime)
	defer runner.Close()

	handlers := make([]*server.AgentHandler, 0, len(bound))
	for _, b := range bound {
		name := strings.ToLower(b.DisplayName)
		handlers = append(handlers, server.NewAgentHandler(name, b.Prefix, b.Agent, runner, sessions, metrics))
		logger.Info("mounted agent %q at %s", b.Agent.Name, b.Prefix)
	}

	engine := server.NewRouter(handlers, server.RouterOptions{
		Runner:      runner,
		Sessions:    sessions,
		Metrics:     metrics,
		Environment: cfg.Environment,
		ServiceName: "cogniserve",
	})
	srv := server.NewServer(engine, server.ServerOptions{
		Addr:         cfg.Addr(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loadAgents(cfg *config.ServerConfig) ([]config.BoundAgent, error) {
	if cfg.AgentManifest == "" {
		return agents.Builtin(""), nil
	}
	m, err := config.LoadManifest(cfg.AgentManifest)
	if err != nil {
		return nil, err
	}
	return m.Resolve()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/taxon/pkg/taxon/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "taxon",
	Short: "Hierarchical text classification over a label taxonomy",
	Long: `taxon keeps a taxonomy of classification paths such as animal,mammal,dog
and classifies text by descending it one level at a time, asking an oracle
(keyword matcher, chat endpoint or OpenAI model) to choose among the
registered sub-categories.

Run without a subcommand to read commands from standard input.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg := zap.NewProductionConfig()
		if verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runShell,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default $TAXON_CONFIG)")

	rootCmd.AddCommand(shellCmd, classifyCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// readConfig resolves the config file from --config, then $TAXON_CONFIG,
// falling back to defaults.
func readConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("TAXON_CONFIG")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildComponents loads configuration and components and starts the metrics
// endpoint when one is configured. The returned cleanup stops everything.
func buildComponents(ctx context.Context) (*config.Components, func(), error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	loader := &config.Loader{Config: cfg, Logger: logger}
	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		loader.Registerer = reg
		if srv, err = serveMetrics(cfg.Metrics.Addr, reg); err != nil {
			return nil, nil, err
		}
	}

	comp, err := loader.Load(ctx)
	if err != nil {
		shutdown(srv)
		return nil, nil, err
	}

	cleanup := func() {
		if err := comp.Close(); err != nil {
			logger.Warn("Closing components failed", zap.Error(err))
		}
		shutdown(srv)
	}
	return comp, cleanup, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("Serving metrics", zap.String("addr", ln.Addr().String()))
	return srv, nil
}

func shutdown(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

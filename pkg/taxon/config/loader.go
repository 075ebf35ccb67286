package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cognicore/taxon/internal/llm"
	"github.com/cognicore/taxon/pkg/taxon/oracle"
	"github.com/cognicore/taxon/pkg/taxon/snapshot"
	"github.com/cognicore/taxon/pkg/taxon/store"
	"github.com/cognicore/taxon/pkg/taxon/store/memstore"
	"github.com/cognicore/taxon/pkg/taxon/store/sqlite"
	"github.com/cognicore/taxon/pkg/taxon/trie"
)

// Loader builds runtime components from a Config.
type Loader struct {
	Config Config
	Logger *zap.Logger

	// Registerer receives oracle metrics. Nil disables instrumentation.
	Registerer prometheus.Registerer
}

// Components holds everything a command needs.
type Components struct {
	Tree      *trie.Tree
	Oracle    oracle.Oracle
	Store     store.Store
	Snapshots *snapshot.Builder

	closers []func() error
}

// Close releases the store and the oracle cache.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load opens the store, builds the oracle chain and loads the startup
// taxonomy. On error everything opened so far is closed.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	comp := &Components{
		Tree:      trie.New(),
		Snapshots: snapshot.NewBuilder(),
	}
	fail := func(err error) (*Components, error) {
		_ = comp.Close()
		return nil, err
	}

	st, err := l.openStore(ctx, logger)
	if err != nil {
		return fail(fmt.Errorf("open store: %w", err))
	}
	comp.Store = st
	comp.closers = append(comp.closers, st.Close)

	if comp.Oracle, err = l.buildOracle(comp, logger); err != nil {
		return fail(fmt.Errorf("build oracle: %w", err))
	}

	if err := l.loadTaxonomy(comp.Tree, logger); err != nil {
		return fail(fmt.Errorf("load taxonomy: %w", err))
	}
	logger.Info("Taxonomy ready", zap.Int("classifications", comp.Tree.Size()))
	return comp, nil
}

func (l *Loader) openStore(ctx context.Context, logger *zap.Logger) (store.Store, error) {
	if l.Config.Store.Path == "" {
		logger.Debug("Using in-memory snapshot store")
		return memstore.New(), nil
	}
	logger.Debug("Opening snapshot store", zap.String("path", l.Config.Store.Path))
	return sqlite.OpenSQLite(ctx, l.Config.Store.Path)
}

func (l *Loader) buildOracle(comp *Components, logger *zap.Logger) (oracle.Oracle, error) {
	cfg := l.Config.Oracle
	httpClient := &http.Client{Timeout: cfg.Timeout}
	apiKey := ""
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}

	var o oracle.Oracle
	switch cfg.Provider {
	case ProviderKeyword, "":
		o = oracle.Keyword{}
	case ProviderChat:
		o = &llm.Client{BaseURL: cfg.BaseURL, APIKey: apiKey, Model: cfg.Model, HTTPClient: httpClient}
	case ProviderOpenAI:
		if apiKey == "" {
			logger.Warn("No API key found for the openai provider", zap.String("env", cfg.APIKeyEnv))
		}
		o = oracle.NewOpenAI(oracle.OpenAIConfig{APIKey: apiKey, Model: cfg.Model, BaseURL: cfg.BaseURL, HTTPClient: httpClient})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	logger.Info("Oracle configured", zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))

	if cfg.Cache.Enabled() {
		cache, err := oracle.OpenCache(oracle.CacheConfig{Dir: cfg.Cache.Dir, InMemory: cfg.Cache.InMemory, Logger: logger.Named("badger")})
		if err != nil {
			return nil, err
		}
		comp.closers = append(comp.closers, cache.Close)
		o = cache.Wrap(o)
	}

	if l.Registerer != nil {
		metrics, err := oracle.NewMetrics(l.Registerer)
		if err != nil {
			return nil, err
		}
		o = metrics.Instrument(o)
	}
	return o, nil
}

func (l *Loader) loadTaxonomy(tree *trie.Tree, logger *zap.Logger) error {
	cfg := l.Config.Taxonomy
	var opts []trie.LoadOption
	if cfg.SkipInvalid {
		opts = append(opts, trie.SkipInvalid(func(line int, err error) {
			logger.Warn("Skipping invalid classification", zap.Int("line", line), zap.Error(err))
		}))
	}

	for _, path := range cfg.Files {
		n, err := tree.LoadFile(path, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("Loaded taxonomy file", zap.String("path", path), zap.Int("inserted", n))
	}

	for _, c := range cfg.Classifications {
		if _, err := tree.Insert(trie.ParsePath(c)); err != nil {
			if cfg.SkipInvalid {
				logger.Warn("Skipping invalid classification", zap.String("classification", c), zap.Error(err))
				continue
			}
			return fmt.Errorf("classification %q: %w", c, err)
		}
	}
	return nil
}

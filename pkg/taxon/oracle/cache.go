package oracle

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// CacheConfig controls the on-disk answer cache.
type CacheConfig struct {
	// Dir is the badger directory. Ignored when InMemory is true.
	Dir string

	// InMemory keeps the cache in memory only. Useful for tests.
	InMemory bool

	// Logger receives badger's own log output. Nil silences it.
	Logger *zap.Logger
}

// Cache remembers oracle answers keyed by text and candidate list, so a
// repeated classification never reaches a remote model twice.
type Cache struct {
	db     *badger.DB
	logger *zap.Logger
}

// OpenCache opens (or creates) the answer cache.
func OpenCache(cfg CacheConfig) (*Cache, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("oracle: cache dir is required for a persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("oracle: create cache dir %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithNumVersionsToKeep(1)
	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.Sugar()})
	} else {
		logger = zap.NewNop()
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("oracle: open cache: %w", err)
	}
	return &Cache{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Wrap returns an Oracle that consults the cache before asking next.
// Errors from next are never cached.
func (c *Cache) Wrap(next Oracle) Oracle {
	return &cached{cache: c, next: next}
}

// Lookup returns the cached answer for text and candidates.
func (c *Cache) Lookup(text string, candidates []string) (string, bool, error) {
	var answer string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(text, candidates))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			answer = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("oracle: cache lookup: %w", err)
	}
	return answer, true, nil
}

// Store records answer for text and candidates.
func (c *Cache) Store(text string, candidates []string, answer string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(text, candidates), []byte(answer))
	})
	if err != nil {
		return fmt.Errorf("oracle: cache store: %w", err)
	}
	return nil
}

type cached struct {
	cache *Cache
	next  Oracle
}

func (o *cached) Choose(ctx context.Context, text string, candidates []string) (string, error) {
	answer, ok, err := o.cache.Lookup(text, candidates)
	if err != nil {
		o.cache.logger.Debug("Cache lookup failed", zap.Error(err))
	} else if ok {
		return answer, nil
	}

	answer, err = o.next.Choose(ctx, text, candidates)
	if err != nil {
		return "", err
	}
	if err := o.cache.Store(text, candidates, answer); err != nil {
		o.cache.logger.Debug("Cache store failed", zap.Error(err))
	}
	return answer, nil
}

const keyPrefix = "choice/"

// cacheKey is keyPrefix followed by the SHA-256 of text, a NUL and each
// candidate NUL-terminated. Keys stay a fixed size whatever the text length.
func cacheKey(text string, candidates []string) []byte {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	for _, c := range candidates {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return h.Sum([]byte(keyPrefix))
}

type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.logger.Infof(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }

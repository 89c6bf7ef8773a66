package badgercache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	json "github.com/goccy/go-json"

	"github.com/poiesic/cinegraph/metadata"
)

// defaultTTL bounds how long a memoized provider lookup stays valid.
// Poster art and external ids change rarely; a week keeps negative results
// from going stale forever.
const defaultTTL = 7 * 24 * time.Hour

// Cache is a BadgerDB-backed metadata.LookupCache.
// Entries expire via Badger's native TTL support.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

var _ metadata.LookupCache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the entry time-to-live. Default is 7 days.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a lookup cache at the specified directory, creating it if
// needed.
func Open(path string, opts ...Option) (*Cache, error) {
	if path == "" {
		return nil, metadata.ErrCachePathRequired
	}

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, err
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	return open(badger.DefaultOptions(path), opts...)
}

// OpenInMemory opens a non-persistent lookup cache. Used in tests and for
// deployments that only want per-process memoization.
func OpenInMemory(opts ...Option) (*Cache, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), opts...)
}

func open(badgerOpts badger.Options, opts ...Option) (*Cache, error) {
	logger := slog.Default().With("component", "lookup-cache")
	badgerOpts.Logger = &badgerLoggerAdapter{logger: logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	cache := &Cache{
		db:     db,
		ttl:    defaultTTL,
		logger: logger,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// Get returns the cached lookup for key, or nil when absent or expired.
func (c *Cache) Get(ctx context.Context, key string) (*metadata.CachedLookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lookup *metadata.CachedLookup
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			var decoded metadata.CachedLookup
			if err := json.Unmarshal(value, &decoded); err != nil {
				return err
			}
			lookup = &decoded
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lookup, nil
}

// Put stores a lookup result under key with the configured TTL.
func (c *Cache) Put(ctx context.Context, key string, value metadata.CachedLookup) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), encoded).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

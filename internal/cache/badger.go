// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BadgerCache keeps entries in an embedded Badger database so they survive
// restarts of a single serve instance. An empty path keeps everything in
// memory. TTLs have one-second resolution.
type BadgerCache struct {
	db        *badger.DB
	logger    zerolog.Logger
	stats     counters
	closeOnce sync.Once
	closeErr  error
}

// NewBadgerCache opens or creates the database directory at path.
func NewBadgerCache(path string, logger zerolog.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	logger.Info().Str("path", path).Msg("opened Badger cache")
	return &BadgerCache{db: db, logger: logger}, nil
}

// Get returns the stored body for key.
func (c *BadgerCache) Get(_ context.Context, key string) ([]byte, bool) {
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("badger get failed")
		}
		c.stats.misses.Add(1)
		return nil, false
	}
	c.stats.hits.Add(1)
	return val, true
}

// Set stores value with ttl. Non-positive TTLs are ignored.
func (c *BadgerCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("badger set failed")
		return
	}
	c.stats.sets.Add(1)
}

// Clear drops every entry.
func (c *BadgerCache) Clear(context.Context) {
	size := c.size()
	if err := c.db.DropAll(); err != nil {
		c.logger.Warn().Err(err).Msg("badger drop failed")
		return
	}
	c.stats.clears.Add(1)
	c.stats.evictions.Add(int64(size))
}

// Stats returns counters plus the number of live keys.
func (c *BadgerCache) Stats() Stats {
	return c.stats.snapshot(c.size())
}

func (c *BadgerCache) size() int {
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("badger scan failed")
	}
	return n
}

// Close flushes and closes the database. It is safe to call more than once.
func (c *BadgerCache) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.db.Close() })
	return c.closeErr
}

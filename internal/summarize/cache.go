// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package summarize

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const summaryKeyPrefix = "summary:"

// cachedSummary is the stored value.
type cachedSummary struct {
	Summary   string    `json:"summary"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Cache persists generated summaries in BadgerDB. Keys include a digest of
// the review text, so edited reviews miss the cache.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenCache opens the cache in dir. An empty dir keeps the cache in memory.
// A ttl of zero keeps entries until they are overwritten.
func OpenCache(dir string, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open summary cache: %w", err)
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Get returns the cached summary for key.
func (c *Cache) Get(key string) (string, bool, error) {
	var entry cachedSummary
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(summaryKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get summary: %w", err)
	}
	return entry.Summary, true, nil
}

// Put stores a summary under key.
func (c *Cache) Put(key, summary, model string) error {
	data, err := json.Marshal(cachedSummary{Summary: summary, Model: model, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(summaryKeyPrefix+key), data)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set summary: %w", err)
		}
		return nil
	})
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

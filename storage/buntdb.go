// Package storage persists named chart datasets. Two backends are
// provided: an embedded BuntDB key-value store and a SQL store via GORM.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/buntdb"

	"github.com/raykavin/timechart/core"
)

// DefaultIndexName orders dataset listings by last update time.
const DefaultIndexName = "update_index"

// BuntStorage implements core.DatasetStorage backed by BuntDB.
type BuntStorage struct {
	db *buntdb.DB
}

// BuntConfig holds configuration options for BuntDB
type BuntConfig struct {
	// Additional indexes to create beyond the default update_index
	AdditionalIndexes map[string]string
	// SyncPolicy determines how often data is synchronized to disk
	SyncPolicy buntdb.SyncPolicy
}

// DefaultBuntConfig returns the default configuration for BuntDB
func DefaultBuntConfig() BuntConfig {
	return BuntConfig{
		AdditionalIndexes: make(map[string]string),
		SyncPolicy:        buntdb.Never,
	}
}

// NewFromMemory creates an in-memory storage with default configuration
func NewFromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:", DefaultBuntConfig())
}

// NewFromFile creates a file-based storage with default configuration
func NewFromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file, DefaultBuntConfig())
}

// NewBuntStorage creates a new BuntDB storage instance with the specified configuration
func NewBuntStorage(sourceFile string, config BuntConfig) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	if err := db.SetConfig(buntdb.Config{
		SyncPolicy: config.SyncPolicy,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure buntdb: %w", err)
	}

	if err := db.CreateIndex(DefaultIndexName, "*", buntdb.IndexJSON("updated_at")); err != nil {
		return nil, fmt.Errorf("failed to create default index: %w", err)
	}

	for name, pattern := range config.AdditionalIndexes {
		if err := db.CreateIndex(name, "*", buntdb.IndexJSON(pattern)); err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}

	return &BuntStorage{db: db}, nil
}

// SaveDataset stores or replaces a dataset under its name.
func (b *BuntStorage) SaveDataset(_ context.Context, ds *core.StoredDataset) error {
	// Use a context-aware version if BuntDB adds context support in future
	return b.db.Update(func(tx *buntdb.Tx) error {
		content, err := json.Marshal(ds)
		if err != nil {
			return fmt.Errorf("failed to marshal dataset: %w", err)
		}

		if _, _, err := tx.Set(ds.Name, string(content), nil); err != nil {
			return fmt.Errorf("failed to store dataset: %w", err)
		}
		return nil
	})
}

// Dataset retrieves a dataset by name.
func (b *BuntStorage) Dataset(_ context.Context, name string) (*core.StoredDataset, error) {
	var ds core.StoredDataset

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(name)
		if err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return fmt.Errorf("%w: dataset %q not found", core.ErrResource, name)
			}
			return fmt.Errorf("failed to read dataset: %w", err)
		}
		return json.Unmarshal([]byte(value), &ds)
	})
	if err != nil {
		return nil, err
	}

	return &ds, nil
}

// Datasets lists stored dataset names ordered by last update.
func (b *BuntStorage) Datasets(_ context.Context) ([]string, error) {
	names := make([]string, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend(DefaultIndexName, func(key, _ string) bool {
			names = append(names, key)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	return names, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

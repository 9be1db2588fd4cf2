package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/raykavin/timechart/core"
)

// SQLStorage implements core.DatasetStorage using a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// Config holds the configuration for SQL database connections
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a default configuration for SQL connections
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// NewFromSQL creates a SQL storage instance for the given dialector. The
// caller picks the driver, which keeps driver dependencies out of this
// package.
func NewFromSQL(dialect gorm.Dialector, config Config, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err = db.AutoMigrate(&core.StoredDataset{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// SaveDataset stores or replaces a dataset under its name.
func (s *SQLStorage) SaveDataset(ctx context.Context, ds *core.StoredDataset) error {
	tx := s.db.WithContext(ctx)
	if result := tx.Save(ds); result.Error != nil {
		return fmt.Errorf("failed to save dataset: %w", result.Error)
	}
	return nil
}

// Dataset retrieves a dataset by name.
func (s *SQLStorage) Dataset(ctx context.Context, name string) (*core.StoredDataset, error) {
	tx := s.db.WithContext(ctx)

	var ds core.StoredDataset
	if result := tx.First(&ds, "name = ?", name); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dataset %q not found", core.ErrResource, name)
		}
		return nil, fmt.Errorf("failed to fetch dataset: %w", result.Error)
	}

	return &ds, nil
}

// Datasets lists stored dataset names ordered by last update.
func (s *SQLStorage) Datasets(ctx context.Context) ([]string, error) {
	tx := s.db.WithContext(ctx)

	var names []string
	result := tx.Model(&core.StoredDataset{}).
		Order("updated_at").
		Pluck("name", &names)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", result.Error)
	}

	return names, nil
}

// WithTransaction executes the given function within a database transaction
func (s *SQLStorage) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

package core

import (
	"context"
	"time"
)

// StoredDataset is a named, persisted copy of a chart dataset. Rows are
// kept as the raw CSV-shaped records they were loaded from; accessors are
// rebuilt by the caller on load.
type StoredDataset struct {
	Name      string               `json:"name" gorm:"primaryKey"`
	TimeField string               `json:"time_field"`
	Fields    []string             `json:"fields" gorm:"serializer:json"`
	Times     []time.Time          `json:"times" gorm:"serializer:json"`
	Values    map[string][]float64 `json:"values" gorm:"serializer:json"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// DatasetStorage defines the persistence contract for named datasets
// used by the chart server.
type DatasetStorage interface {
	// SaveDataset stores or replaces a dataset under its name.
	SaveDataset(ctx context.Context, ds *StoredDataset) error

	// Dataset retrieves a dataset by name.
	Dataset(ctx context.Context, name string) (*StoredDataset, error)

	// Datasets lists the stored dataset names, most recently updated last.
	Datasets(ctx context.Context) ([]string, error)
}

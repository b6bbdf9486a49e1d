package database

import (
	"context"
)

// NeighborhoodReader provides read-only access to neighborhoods
type NeighborhoodReader interface {
	// ListNeighborhoods returns every neighborhood ordered by id
	ListNeighborhoods(ctx context.Context) ([]Neighborhood, error)
	// GetNeighborhood returns a neighborhood by id, returns nil if not found
	GetNeighborhood(ctx context.Context, id int64) (*Neighborhood, error)
}

// NeighborhoodWriter provides write access to neighborhoods
type NeighborhoodWriter interface {
	NeighborhoodReader

	// InsertNeighborhood stores a new neighborhood and returns its id
	InsertNeighborhood(ctx context.Context, name string) (int64, error)

	// UpdateNeighborhood renames a neighborhood.
	// Returns false if no row matched the id.
	UpdateNeighborhood(ctx context.Context, id int64, name string) (bool, error)

	// DeleteNeighborhood removes a neighborhood.
	// Returns false if the store reported zero affected rows.
	DeleteNeighborhood(ctx context.Context, id int64) (bool, error)
}

// Migrator applies schema migrations for a backend.
type Migrator interface {
	Migrate(ctx context.Context) error
}

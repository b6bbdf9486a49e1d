// Package neighborhoods serves the neighborhoods table through the
// read-through cache and invalidates the affected keys after every write.
package neighborhoods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kozaktomas/facegate/internal/cache"
	"github.com/kozaktomas/facegate/internal/database"
	"github.com/kozaktomas/facegate/internal/envelope"
)

// Keys is the cache keyspace of the neighborhoods table.
var Keys = cache.Keyspace{Collection: "records:all", ItemPrefix: "record"}

// Service is the cached CRUD layer over a neighborhood repository.
type Service struct {
	repo     database.NeighborhoodWriter
	cache    *cache.Cache
	ttl      time.Duration
	validate *validator.Validate
}

// NewService creates a Service caching reads for ttl.
func NewService(repo database.NeighborhoodWriter, c *cache.Cache, ttl time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		ttl:      ttl,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type nameInput struct {
	Name string `validate:"required,max=255"`
}

// checkName normalizes and validates a record name.
func (s *Service) checkName(name string) (string, error) {
	in := nameInput{Name: database.NormalizeName(name)}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			return "", envelope.NewInputError("field 'name' must be at most %d characters", database.NeighborhoodNameMaxLen)
		}
		return "", envelope.NewInputError("field 'name' is required")
	}
	return in.Name, nil
}

// List returns every neighborhood. An empty table is NotFound and is not cached.
func (s *Service) List(ctx context.Context) ([]database.Neighborhood, error) {
	return cache.ReadThrough(ctx, s.cache, Keys.CollectionKey(), s.ttl, func(ctx context.Context) ([]database.Neighborhood, error) {
		rows, err := s.repo.ListNeighborhoods(ctx)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, database.NotFound("no neighborhoods found")
		}
		return rows, nil
	})
}

// Get returns the neighborhood with id.
func (s *Service) Get(ctx context.Context, id int64) (*database.Neighborhood, error) {
	return cache.ReadThrough(ctx, s.cache, Keys.ItemKey(id), s.ttl, func(ctx context.Context) (*database.Neighborhood, error) {
		n, err := s.repo.GetNeighborhood(ctx, id)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, database.NotFound("neighborhood %d not found", id)
		}
		return n, nil
	})
}

// Insert stores a new neighborhood.
func (s *Service) Insert(ctx context.Context, name string) (*database.Neighborhood, error) {
	name, err := s.checkName(name)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.InsertNeighborhood(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("insert neighborhood: %w", err)
	}
	s.cache.InvalidateAfterMutation(ctx, Keys, cache.MutationInsert, id)
	return &database.Neighborhood{ID: id, Name: name}, nil
}

// Update renames the neighborhood with id.
func (s *Service) Update(ctx context.Context, id int64, name string) (*database.Neighborhood, error) {
	name, err := s.checkName(name)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdateNeighborhood(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("update neighborhood %d: %w", id, err)
	}
	// The statement completed, so invalidate even when no row matched.
	s.cache.InvalidateAfterMutation(ctx, Keys, cache.MutationUpdate, id)
	if !ok {
		return nil, database.NotFound("neighborhood %d not found", id)
	}
	return &database.Neighborhood{ID: id, Name: name}, nil
}

// Delete removes the neighborhood with id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.DeleteNeighborhood(ctx, id)
	if err != nil {
		return fmt.Errorf("delete neighborhood %d: %w", id, err)
	}
	s.cache.InvalidateAfterMutation(ctx, Keys, cache.MutationDelete, id)
	if !ok {
		return database.NotFound("neighborhood %d not found", id)
	}
	return nil
}

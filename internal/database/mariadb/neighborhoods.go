package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/facegate/internal/database"
)

// NeighborhoodRepository provides MariaDB-backed neighborhood storage
type NeighborhoodRepository struct {
	pool *Pool
}

// NewNeighborhoodRepository creates a new NeighborhoodRepository
func NewNeighborhoodRepository(pool *Pool) *NeighborhoodRepository {
	return &NeighborhoodRepository{pool: pool}
}

var _ database.NeighborhoodWriter = (*NeighborhoodRepository)(nil)

func (r *NeighborhoodRepository) ListNeighborhoods(ctx context.Context) ([]database.Neighborhood, error) {
	rows, err := r.pool.db.QueryContext(ctx, "SELECT id, name FROM neighborhoods ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list neighborhoods: %w", err)
	}
	defer rows.Close()

	var result []database.Neighborhood
	for rows.Next() {
		var n database.Neighborhood
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("scan neighborhood: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate neighborhoods: %w", err)
	}
	return result, nil
}

func (r *NeighborhoodRepository) GetNeighborhood(ctx context.Context, id int64) (*database.Neighborhood, error) {
	var n database.Neighborhood
	err := r.pool.db.QueryRowContext(ctx, "SELECT id, name FROM neighborhoods WHERE id = ?", id).Scan(&n.ID, &n.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get neighborhood: %w", err)
	}
	return &n, nil
}

func (r *NeighborhoodRepository) InsertNeighborhood(ctx context.Context, name string) (int64, error) {
	result, err := r.pool.db.ExecContext(ctx, "INSERT INTO neighborhoods (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("insert neighborhood: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

func (r *NeighborhoodRepository) UpdateNeighborhood(ctx context.Context, id int64, name string) (bool, error) {
	result, err := r.pool.db.ExecContext(ctx, "UPDATE neighborhoods SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return false, fmt.Errorf("update neighborhood: %w", err)
	}
	return matched(result)
}

func (r *NeighborhoodRepository) DeleteNeighborhood(ctx context.Context, id int64) (bool, error) {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM neighborhoods WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete neighborhood: %w", err)
	}
	return matched(result)
}

func matched(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return n > 0, nil
}

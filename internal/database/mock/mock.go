// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/kozaktomas/facegate/internal/database"
)

// MockNeighborhoodStore is an in-memory implementation of database.NeighborhoodWriter
type MockNeighborhoodStore struct {
	mu     sync.RWMutex
	rows   map[int64]string
	nextID int64

	// Error injection
	ListError   error
	GetError    error
	InsertError error
	UpdateError error
	DeleteError error

	// Call tracking
	ListCalls   int
	GetCalls    []int64
	InsertCalls []string
	UpdateCalls []UpdateCall
	DeleteCalls []int64
}

// UpdateCall records the arguments of an UpdateNeighborhood call
type UpdateCall struct {
	ID   int64
	Name string
}

var _ database.NeighborhoodWriter = (*MockNeighborhoodStore)(nil)

// NewMockNeighborhoodStore creates a new empty neighborhood store
func NewMockNeighborhoodStore() *MockNeighborhoodStore {
	return &MockNeighborhoodStore{
		rows:   make(map[int64]string),
		nextID: 1,
	}
}

// AddNeighborhood seeds a row without counting as a call
func (m *MockNeighborhoodStore) AddNeighborhood(n database.Neighborhood) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[n.ID] = n.Name
	if n.ID >= m.nextID {
		m.nextID = n.ID + 1
	}
}

// Len returns the number of stored rows
func (m *MockNeighborhoodStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// ListNeighborhoods returns all rows ordered by id
func (m *MockNeighborhoodStore) ListNeighborhoods(ctx context.Context) ([]database.Neighborhood, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListError != nil {
		return nil, m.ListError
	}

	result := make([]database.Neighborhood, 0, len(m.rows))
	for id, name := range m.rows {
		result = append(result, database.Neighborhood{ID: id, Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetNeighborhood returns a row by id, nil if absent
func (m *MockNeighborhoodStore) GetNeighborhood(ctx context.Context, id int64) (*database.Neighborhood, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, id)
	if m.GetError != nil {
		return nil, m.GetError
	}
	name, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &database.Neighborhood{ID: id, Name: name}, nil
}

// InsertNeighborhood stores a row under the next id
func (m *MockNeighborhoodStore) InsertNeighborhood(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls = append(m.InsertCalls, name)
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	id := m.nextID
	m.nextID++
	m.rows[id] = name
	return id, nil
}

// UpdateNeighborhood renames a row, false if absent
func (m *MockNeighborhoodStore) UpdateNeighborhood(ctx context.Context, id int64, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{ID: id, Name: name})
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	m.rows[id] = name
	return true, nil
}

// DeleteNeighborhood removes a row, false if absent
func (m *MockNeighborhoodStore) DeleteNeighborhood(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteError != nil {
		return false, m.DeleteError
	}
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

// ReadCalls returns the number of List and Get calls made so far
func (m *MockNeighborhoodStore) ReadCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ListCalls + len(m.GetCalls)
}

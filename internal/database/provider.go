package database

import (
	"fmt"
	"sort"
	"sync"
)

var (
	backendsMu sync.RWMutex
	backends   = map[string]func() NeighborhoodWriter{}
)

// RegisterBackend registers the neighborhood repository constructor for a driver.
// Called from the composition root after the driver's pool is open, which keeps
// this package free of driver imports.
func RegisterBackend(driver string, writer func() NeighborhoodWriter) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[driver] = writer
}

// IsInitialized returns whether a backend has been registered for driver.
func IsInitialized(driver string) bool {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	_, ok := backends[driver]
	return ok
}

// GetNeighborhoodWriter returns the repository registered for driver.
func GetNeighborhoodWriter(driver string) (NeighborhoodWriter, error) {
	backendsMu.RLock()
	writer, ok := backends[driver]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("database backend %q not initialized: DATABASE_URL is required", driver)
	}
	return writer(), nil
}

// RegisteredDrivers lists the drivers with a registered backend, sorted.
func RegisteredDrivers() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	drivers := make([]string, 0, len(backends))
	for d := range backends {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)
	return drivers
}

// ResetForTesting clears all registered backends.
func ResetForTesting() {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends = map[string]func() NeighborhoodWriter{}
}

package database

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Neighborhood is a row of the neighborhoods reference table.
type Neighborhood struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NormalizeName trims surrounding whitespace from a neighborhood name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NotFoundError is an ErrNotFound carrying a caller-facing detail.
type NotFoundError struct {
	Detail string
}

// NotFound returns an error that matches ErrNotFound with errors.Is.
func NotFound(format string, args ...any) error {
	return &NotFoundError{Detail: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	return e.Detail
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

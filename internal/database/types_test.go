package database

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Centro", "Centro"},
		{"  Vila Nova  ", "Vila Nova"},
		{"\tJardim\n", "Jardim"},
		{"   ", ""},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := NormalizeName(tc.in); got != tc.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("neighborhood %d not found", 7)
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound does not match ErrNotFound")
	}
	if err.Error() != "neighborhood 7 not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	wrapped := fmt.Errorf("service: %w", err)
	var nf *NotFoundError
	if !errors.As(wrapped, &nf) || nf.Detail != "neighborhood 7 not found" {
		t.Errorf("errors.As through wrap failed: %v", wrapped)
	}
}

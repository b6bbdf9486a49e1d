package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/facegate/internal/envelope"
)

type recordingSink struct {
	events []Event
	err    error
}

func (s *recordingSink) Save(_ context.Context, e Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func ptr(f float64) *float64 { return &f }

func TestIngest(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink)
	svc.now = func() time.Time { return time.Unix(1700000000, 250000000) }

	event, err := svc.Ingest(context.Background(), "12345678000199", Reading{Lat: ptr(-19.92), Lng: ptr(-43.94), Plate: " abc1d23 "})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if event.Plate != "ABC1D23" || event.AccountID != "12345678000199" {
		t.Errorf("event = %+v", event)
	}
	if event.Timestamp != 1700000000.25 {
		t.Errorf("Timestamp = %v", event.Timestamp)
	}
	if len(sink.events) != 1 || sink.events[0] != *event {
		t.Errorf("sink received %+v", sink.events)
	}
}

func TestIngest_ZeroCoordinatesAccepted(t *testing.T) {
	sink := &recordingSink{}
	if _, err := NewService(sink).Ingest(context.Background(), "a", Reading{Lat: ptr(0), Lng: ptr(0), Plate: "X"}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		r      Reading
		detail string
	}{
		{"missing lat", Reading{Lng: ptr(1), Plate: "X"}, "field 'lat' is required"},
		{"missing plate", Reading{Lat: ptr(1), Lng: ptr(1), Plate: "  "}, "field 'plate' is required"},
		{"lat too high", Reading{Lat: ptr(91), Lng: ptr(1), Plate: "X"}, "field 'lat' must be at most 90"},
		{"lng too low", Reading{Lat: ptr(1), Lng: ptr(-181), Plate: "X"}, "field 'lng' must be at least -180"},
		{"plate too long", Reading{Lat: ptr(1), Lng: ptr(1), Plate: strings.Repeat("A", 17)}, "field 'plate' must be at most 16 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			_, err := NewService(sink).Ingest(context.Background(), "acct", tt.r)
			var input *envelope.InputError
			if !errors.As(err, &input) {
				t.Fatalf("err = %v, want InputError", err)
			}
			if input.Message != tt.detail {
				t.Errorf("detail = %q, want %q", input.Message, tt.detail)
			}
			if len(sink.events) != 0 {
				t.Error("sink called for invalid reading")
			}
		})
	}
}

func TestIngest_SinkFailure(t *testing.T) {
	boom := errors.New("couchdb unavailable")
	_, err := NewService(&recordingSink{err: boom}).Ingest(context.Background(), "acct", Reading{Lat: ptr(1), Lng: ptr(1), Plate: "X"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped sink error", err)
	}
	if c := envelope.Classify(err); c.Class != envelope.UpstreamFailure {
		t.Errorf("class = %v, want upstream failure", c.Class)
	}
}

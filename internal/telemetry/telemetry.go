// Package telemetry ingests authenticated vehicle position reports and
// forwards them to a document-store sink.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kozaktomas/facegate/internal/envelope"
)

// Reading is the webhook request body
type Reading struct {
	Lat   *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng   *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Plate string   `json:"plate" validate:"required,max=16"`
}

// Event is a validated reading attributed to an account
type Event struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Plate     string  `json:"plate"`
	AccountID string  `json:"account_id"`
	Timestamp float64 `json:"ts"` // unix seconds
}

// Sink stores events. Implementations own their merge and retention rules.
type Sink interface {
	Save(ctx context.Context, event Event) error
}

// Service validates readings and hands them to a Sink
type Service struct {
	sink     Sink
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a Service writing to sink.
func NewService(sink Sink) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Service{sink: sink, validate: v, now: time.Now}
}

// Ingest validates r and forwards it to the sink on behalf of account.
// The sink is not called when validation fails.
func (s *Service) Ingest(ctx context.Context, account string, r Reading) (*Event, error) {
	r.Plate = strings.ToUpper(strings.TrimSpace(r.Plate))
	if err := s.check(r); err != nil {
		return nil, err
	}
	if account == "" {
		return nil, envelope.NewAuthError("invalid token")
	}

	event := Event{
		Lat:       *r.Lat,
		Lng:       *r.Lng,
		Plate:     r.Plate,
		AccountID: account,
		Timestamp: float64(s.now().UnixMicro()) / 1e6,
	}
	if err := s.sink.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save telemetry event: %w", err)
	}
	return &event, nil
}

func (s *Service) check(r Reading) error {
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return envelope.NewInputError("invalid request body")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return envelope.NewInputError("field '%s' is required", fe.Field())
	case "max":
		return envelope.NewInputError("field '%s' must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return envelope.NewInputError("field '%s' must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return envelope.NewInputError("field '%s' must be at most %s", fe.Field(), fe.Param())
	default:
		return envelope.NewInputError("field '%s' is invalid", fe.Field())
	}
}

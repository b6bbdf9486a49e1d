// Package envelope builds the success and error bodies returned at the HTTP
// boundary. Classify is the only place that maps internal errors to a status.
package envelope

import (
	"io"
	"log/slog"
	"maps"
)

// Envelope is a success body: a message, request identifiers and one payload.
type Envelope map[string]any

// With adds a field and returns the envelope.
func (e Envelope) With(key string, value any) Envelope {
	e[key] = value
	return e
}

// ErrorBody is the error shape.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Builder assembles envelopes and logs failures that must not reach clients.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{logger: logger}
}

// Success starts a success envelope with message and the given identifiers.
func (b *Builder) Success(message string, identifiers map[string]any) Envelope {
	env := Envelope{"message": message}
	maps.Copy(env, identifiers)
	return env
}

// Failure classifies err and returns the status and body to send. Upstream
// failures are logged with the full error; the body only carries a summary.
func (b *Builder) Failure(err error, attrs ...any) (int, ErrorBody) {
	c := Classify(err)
	if c.Class == UpstreamFailure {
		b.logger.Error("request failed", append(attrs, "error", err)...)
	} else {
		b.logger.Debug("request rejected", append(attrs, "class", c.Class.String(), "error", err)...)
	}
	return c.Status, ErrorBody{Detail: c.Detail}
}

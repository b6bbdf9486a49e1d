// Package couchdb stores telemetry events in a CouchDB database.
package couchdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/telemetry"
)

// Sink writes one document per event and keeps a "latest:{plate}" document
// with the newest position of each vehicle.
type Sink struct {
	baseURL  string
	database string
	username string
	password string
	client   *http.Client
	logger   *slog.Logger
}

var _ telemetry.Sink = (*Sink)(nil)

// New creates a Sink for cfg.
func New(cfg config.CouchDBConfig, logger *slog.Logger) (*Sink, error) {
	if cfg.URL == "" {
		return nil, errors.New("COUCHDB_URL is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid COUCHDB_URL: %w", err)
	}
	if cfg.Database == "" {
		return nil, errors.New("CouchDB database name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		baseURL:  strings.TrimSuffix(cfg.URL, "/"),
		database: cfg.Database,
		username: cfg.Username,
		password: cfg.Password,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}, nil
}

type document struct {
	ID        string  `json:"_id"`
	Rev       string  `json:"_rev,omitempty"`
	Type      string  `json:"type"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Plate     string  `json:"plate"`
	AccountID string  `json:"account_id"`
	Timestamp float64 `json:"ts"`
}

func newDocument(id, kind string, e telemetry.Event) document {
	return document{
		ID:        id,
		Type:      kind,
		Lat:       e.Lat,
		Lng:       e.Lng,
		Plate:     e.Plate,
		AccountID: e.AccountID,
		Timestamp: e.Timestamp,
	}
}

func (s *Sink) docURL(id string) string {
	return s.baseURL + "/" + url.PathEscape(s.database) + "/" + url.PathEscape(id)
}

func (s *Sink) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	return resp, nil
}

func readErrorBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 1024))
	return strings.TrimSpace(string(data))
}

// EnsureDatabase creates the database if it does not exist.
func (s *Sink) EnsureDatabase(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodPut, s.baseURL+"/"+url.PathEscape(s.database), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusAccepted, http.StatusPreconditionFailed:
		return nil
	default:
		return fmt.Errorf("create database %s failed with status %d: %s", s.database, resp.StatusCode, readErrorBody(resp.Body))
	}
}

// Save stores the event and refreshes the vehicle's latest position. The
// event document is authoritative; a failed latest update is only logged.
func (s *Sink) Save(ctx context.Context, e telemetry.Event) error {
	if err := s.put(ctx, newDocument(uuid.NewString(), "position", e)); err != nil {
		return err
	}
	if err := s.upsertLatest(ctx, e); err != nil {
		s.logger.Warn("latest position not updated", "plate", e.Plate, "error", err)
	}
	return nil
}

func (s *Sink) put(ctx context.Context, doc document) error {
	resp, err := s.do(ctx, http.MethodPut, s.docURL(doc.ID), doc)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("store document %s failed with status %d: %s", doc.ID, resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// upsertLatest replaces the latest document unless it already holds a newer event.
func (s *Sink) upsertLatest(ctx context.Context, e telemetry.Event) error {
	doc := newDocument("latest:"+e.Plate, "latest", e)

	current, err := s.get(ctx, doc.ID)
	if err != nil {
		return err
	}
	if current != nil {
		if current.Timestamp > e.Timestamp {
			return nil
		}
		doc.Rev = current.Rev
	}
	return s.put(ctx, doc)
}

// get returns nil when the document does not exist.
func (s *Sink) get(ctx context.Context, id string) (*document, error) {
	resp, err := s.do(ctx, http.MethodGet, s.docURL(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var doc document
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return nil, fmt.Errorf("could not decode document %s: %w", id, err)
		}
		return &doc, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("fetch document %s failed with status %d: %s", id, resp.StatusCode, readErrorBody(resp.Body))
	}
}

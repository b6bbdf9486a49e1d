package couchdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/telemetry"
)

// fakeCouch is a minimal in-memory CouchDB document API.
type fakeCouch struct {
	mu      sync.Mutex
	docs    map[string]map[string]any
	revs    map[string]int
	authOK  bool
	failPut bool
}

func newFakeCouch() *fakeCouch {
	return &fakeCouch{docs: map[string]map[string]any{}, revs: map[string]int{}}
}

func (f *fakeCouch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, pass, ok := r.BasicAuth()
	f.authOK = ok && user == "admin" && pass == "secret"

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) == 1 {
		w.WriteHeader(http.StatusPreconditionFailed)
		return
	}
	id := parts[1]

	switch r.Method {
	case http.MethodGet:
		doc, ok := f.docs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	case http.MethodPut:
		if f.failPut {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var doc map[string]any
		_ = json.NewDecoder(r.Body).Decode(&doc)
		if existing, ok := f.docs[id]; ok && existing["_rev"] != doc["_rev"] {
			w.WriteHeader(http.StatusConflict)
			return
		}
		f.revs[id]++
		doc["_rev"] = strings.Repeat("r", f.revs[id])
		f.docs[id] = doc
		w.WriteHeader(http.StatusCreated)
	}
}

func newTestSink(t *testing.T, f *fakeCouch) *Sink {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	s, err := New(config.CouchDBConfig{URL: srv.URL + "/", Database: "telemetry", Username: "admin", Password: "secret"}, nil)
	require.NoError(t, err)
	return s
}

func TestSave(t *testing.T) {
	f := newFakeCouch()
	s := newTestSink(t, f)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, telemetry.Event{Lat: 1, Lng: 2, Plate: "ABC1D23", AccountID: "acct", Timestamp: 10}))
	require.NoError(t, s.Save(ctx, telemetry.Event{Lat: 3, Lng: 4, Plate: "ABC1D23", AccountID: "acct", Timestamp: 20}))

	assert.True(t, f.authOK)
	assert.Len(t, f.docs, 3, "two position docs and one latest doc")
	latest := f.docs["latest:ABC1D23"]
	require.NotNil(t, latest)
	assert.Equal(t, float64(20), latest["ts"])
	assert.Equal(t, "latest", latest["type"])
}

func TestSave_OlderEventKeepsLatest(t *testing.T) {
	f := newFakeCouch()
	s := newTestSink(t, f)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, telemetry.Event{Plate: "X", Timestamp: 20}))
	require.NoError(t, s.Save(ctx, telemetry.Event{Plate: "X", Timestamp: 5}))
	assert.Equal(t, float64(20), f.docs["latest:X"]["ts"])
}

func TestSave_StoreFailure(t *testing.T) {
	f := newFakeCouch()
	f.failPut = true
	s := newTestSink(t, f)

	err := s.Save(context.Background(), telemetry.Event{Plate: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestEnsureDatabase_Existing(t *testing.T) {
	s := newTestSink(t, newFakeCouch())
	require.NoError(t, s.EnsureDatabase(context.Background()))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(config.CouchDBConfig{Database: "telemetry"}, nil)
	require.Error(t, err)
	_, err = New(config.CouchDBConfig{URL: "http://couch:5984"}, nil)
	require.Error(t, err)
}

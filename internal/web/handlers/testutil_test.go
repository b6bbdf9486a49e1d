package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/deepface"
	"github.com/kozaktomas/facegate/internal/envelope"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Uploads: config.UploadsConfig{AllowedExtensions: []string{"png", "jpg", "jpeg"}},
	}
}

func testEnvelope() *envelope.Builder {
	return envelope.NewBuilder(nil)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type upload struct {
	field    string
	filename string
	data     []byte
}

// multipartRequest builds a POST request carrying the given file uploads
func multipartRequest(t *testing.T, path string, uploads ...upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := mw.CreateFormFile(u.field, u.filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(u.data)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody decodes a JSON response body into a generic map
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return body
}

// fakeFaceService stands in for the face-analysis server
type fakeFaceService struct {
	verifyCalls  int
	analyzeCalls int
	verifyErr    error
	analyzeErr   error
	faces        []deepface.FaceAnalysis
}

func (f *fakeFaceService) Verify(_ context.Context, img1, img2 []byte) (*deepface.VerifyResult, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if bytes.Equal(img1, img2) {
		return &deepface.VerifyResult{Verified: true, Distance: 0, Model: "Facenet"}, nil
	}
	return &deepface.VerifyResult{Verified: false, Distance: 0.8, Model: "Facenet"}, nil
}

func (f *fakeFaceService) Analyze(_ context.Context, _ []byte, _ []string) ([]deepface.FaceAnalysis, error) {
	f.analyzeCalls++
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.faces, nil
}

var noFaceError = &deepface.APIError{
	StatusCode: http.StatusBadRequest,
	Message:    "Exception while analyzing: Face could not be detected in numpy array.",
}

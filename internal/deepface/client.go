// Package deepface is an HTTP client for a DeepFace REST server that
// verifies face pairs and analyzes facial attributes.
package deepface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/kozaktomas/facegate/internal/constants"
)

const (
	defaultURL   = "http://localhost:5005"
	defaultModel = constants.DefaultVerifyModel
)

// Client calls the face-analysis server
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates a new client. Empty arguments use the defaults.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// Model returns the verification model name
func (c *Client) Model() string {
	return c.model
}

// VerifyResult is the verifier's raw answer
type VerifyResult struct {
	Verified  bool    `json:"verified"`
	Distance  float64 `json:"distance"`
	Threshold float64 `json:"threshold"`
	Model     string  `json:"model"`
}

// FaceAnalysis is one analyzed face
type FaceAnalysis struct {
	Age            float64            `json:"age"`
	DominantGender string             `json:"dominant_gender"`
	Gender         map[string]float64 `json:"gender"`
}

type analyzeResponse struct {
	Results []FaceAnalysis `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// formFile is one image part of a multipart request
type formFile struct {
	field string
	data  []byte
}

func (c *Client) postMultipart(ctx context.Context, endpoint string, files []formFile, fields map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="%s.%s"`, f.field, f.field, extension(f.data)))
		h.Set("Content-Type", http.DetectContentType(f.data))
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(f.data); err != nil {
			return nil, fmt.Errorf("failed to write image data: %w", err)
		}
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// Verify asks the server whether two images show the same person.
// Detection is always enforced.
func (c *Client) Verify(ctx context.Context, img1, img2 []byte) (*VerifyResult, error) {
	body, err := c.postMultipart(ctx, "/verify",
		[]formFile{{field: "img1", data: img1}, {field: "img2", data: img2}},
		map[string]string{
			"model_name":        c.model,
			"enforce_detection": strconv.FormatBool(true),
		})
	if err != nil {
		return nil, err
	}

	var result VerifyResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Model == "" {
		result.Model = c.model
	}
	return &result, nil
}

// Analyze runs the given attribute actions on every face found in img.
// The server orders results by prominence.
func (c *Client) Analyze(ctx context.Context, img []byte, actions []string) ([]FaceAnalysis, error) {
	encoded, err := json.Marshal(actions)
	if err != nil {
		return nil, fmt.Errorf("encode actions: %w", err)
	}

	body, err := c.postMultipart(ctx, "/analyze",
		[]formFile{{field: "img", data: img}},
		map[string]string{
			"actions":           string(encoded),
			"enforce_detection": strconv.FormatBool(true),
		})
	if err != nil {
		return nil, err
	}

	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.Results, nil
}

func extension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png"
	default:
		return "jpg"
	}
}

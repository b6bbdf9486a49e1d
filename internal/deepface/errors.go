package deepface

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrServer is wrapped by APIError for any non-200 answer
var ErrServer = errors.New("deepface server error")

// The server reports detection failures only through its exception text.
const noFaceMarker = "Face could not be detected"

// APIError is a non-200 answer from the server
type APIError struct {
	StatusCode int
	Message    string
}

func newAPIError(status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		msg = parsed.Error
	}
	return &APIError{StatusCode: status, Message: msg}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrServer
}

// NoFaceDetected reports whether the server rejected an image because it
// found no face in it.
func (e *APIError) NoFaceDetected() bool {
	return strings.Contains(e.Message, noFaceMarker)
}

// Image returns which upload the detection failure refers to: 2 when the
// message names img2, 1 otherwise.
func (e *APIError) Image() int {
	if strings.Contains(e.Message, "img2") {
		return 2
	}
	return 1
}

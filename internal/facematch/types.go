// Package facematch adapts the external face verifier and attribute analyzer
// to fixed result shapes and typed errors.
package facematch

import (
	"github.com/kozaktomas/facegate/internal/fingerprint"
)

// Image is an uploaded payload with its content digest
type Image struct {
	Data   []byte
	Digest fingerprint.Digest
}

// NewImage fingerprints data. Callers reject empty uploads before this point.
func NewImage(data []byte) Image {
	return Image{Data: data, Digest: fingerprint.Compute(data)}
}

// VerificationResult is the normalized verdict for a pair of faces.
// SimilarityPercent is always derived from Distance.
type VerificationResult struct {
	Matched           bool    `json:"matched"`
	Distance          float64 `json:"distance"`
	ModelName         string  `json:"model_name"`
	SimilarityPercent float64 `json:"similarity_percent"`
}

// AttributeResult is the normalized analysis of the most prominent face
type AttributeResult struct {
	ApproximateAge        float64            `json:"approximate_age"`
	DominantCategory      string             `json:"dominant_category"`
	CategoryProbabilities map[string]float64 `json:"category_probabilities"`
}

// Attribute actions requested from the analyzer
var analyzeActions = []string{"age", "gender"}

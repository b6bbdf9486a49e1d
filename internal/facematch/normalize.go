package facematch

import (
	"errors"
	"fmt"
	"math"
)

// SimilarityPercent maps a verifier distance to a percentage rounded to two
// decimals and clamped to [0, 100].
func SimilarityPercent(distance float64) float64 {
	pct := math.Round((1-distance)*100*100) / 100
	return math.Min(100, math.Max(0, pct))
}

// NormalizeProbabilities rescales non-negative scores so they sum to 1.
// An all-zero map is returned as zeros.
func NormalizeProbabilities(scores map[string]float64) (map[string]float64, error) {
	if len(scores) == 0 {
		return nil, errors.New("no category probabilities")
	}

	var total float64
	for label, v := range scores {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid probability %v for %q", v, label)
		}
		total += v
	}

	out := make(map[string]float64, len(scores))
	for label, v := range scores {
		if total > 0 {
			out[label] = v / total
		} else {
			out[label] = 0
		}
	}
	return out, nil
}

// dominant returns the label with the highest score, ties broken by label order.
func dominant(scores map[string]float64) string {
	best := ""
	bestScore := math.Inf(-1)
	for label, v := range scores {
		if v > bestScore || (v == bestScore && label < best) {
			best, bestScore = label, v
		}
	}
	return best
}

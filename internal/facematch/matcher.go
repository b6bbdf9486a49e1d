package facematch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/facegate/internal/cache"
	"github.com/kozaktomas/facegate/internal/deepface"
)

// Verifier compares two face images
type Verifier interface {
	Verify(ctx context.Context, img1, img2 []byte) (*deepface.VerifyResult, error)
}

// Analyzer infers attributes for every face in an image
type Analyzer interface {
	Analyze(ctx context.Context, img []byte, actions []string) ([]deepface.FaceAnalysis, error)
}

// Matcher runs verification and attribute analysis. Each call reaches the
// external service at most once and is never retried.
type Matcher struct {
	verifier  Verifier
	analyzer  Analyzer
	cache     *cache.Cache
	resultTTL time.Duration
}

// NewMatcher creates a Matcher. The deepface client satisfies both interfaces.
func NewMatcher(verifier Verifier, analyzer Analyzer) *Matcher {
	return &Matcher{verifier: verifier, analyzer: analyzer}
}

// WithResultCache caches successful results keyed by image digests for ttl.
// A nil cache or non-positive ttl disables result caching.
func (m *Matcher) WithResultCache(c *cache.Cache, ttl time.Duration) *Matcher {
	if c == nil {
		ttl = 0
	}
	m.cache = c
	m.resultTTL = ttl
	return m
}

func compareKey(a, b Image) string {
	return fmt.Sprintf("compare:%s:%s", a.Digest, b.Digest)
}

func attributesKey(img Image) string {
	return fmt.Sprintf("attributes:%s", img.Digest)
}

// Verify compares the faces in a and b.
func (m *Matcher) Verify(ctx context.Context, a, b Image) (*VerificationResult, error) {
	return cache.ReadThrough(ctx, m.cache, compareKey(a, b), m.resultTTL, func(ctx context.Context) (*VerificationResult, error) {
		return m.verify(ctx, a, b)
	})
}

func (m *Matcher) verify(ctx context.Context, a, b Image) (*VerificationResult, error) {
	raw, err := m.verifier.Verify(ctx, a.Data, b.Data)
	if err != nil {
		var apiErr *deepface.APIError
		if errors.As(err, &apiErr) && apiErr.NoFaceDetected() {
			which := ImageA
			if apiErr.Image() == 2 {
				which = ImageB
			}
			return nil, &VerificationError{Kind: VerifyNoFaceDetected, Which: which, Message: apiErr.Message, Err: err}
		}
		return nil, &VerificationError{Kind: VerifyExternalFailure, Message: err.Error(), Err: err}
	}

	return &VerificationResult{
		Matched:           raw.Verified,
		Distance:          raw.Distance,
		ModelName:         raw.Model,
		SimilarityPercent: SimilarityPercent(raw.Distance),
	}, nil
}

// AnalyzeAttributes estimates age and gender of the first face the analyzer reports.
func (m *Matcher) AnalyzeAttributes(ctx context.Context, img Image) (*AttributeResult, error) {
	return cache.ReadThrough(ctx, m.cache, attributesKey(img), m.resultTTL, func(ctx context.Context) (*AttributeResult, error) {
		return m.analyze(ctx, img)
	})
}

func (m *Matcher) analyze(ctx context.Context, img Image) (*AttributeResult, error) {
	faces, err := m.analyzer.Analyze(ctx, img.Data, analyzeActions)
	if err != nil {
		var apiErr *deepface.APIError
		if errors.As(err, &apiErr) && apiErr.NoFaceDetected() {
			return nil, &AttributeError{Kind: AttrNoFaceDetected, Message: apiErr.Message, Err: err}
		}
		return nil, &AttributeError{Kind: AttrExternalFailure, Message: err.Error(), Err: err}
	}
	if len(faces) == 0 {
		return nil, &AttributeError{Kind: AttrNoFaceInResultSet}
	}

	// The analyzer lists the most prominent face first.
	face := faces[0]
	if face.Age < 0 {
		return nil, &AttributeError{Kind: AttrExternalFailure, Message: fmt.Sprintf("negative age %v", face.Age)}
	}
	probs, err := NormalizeProbabilities(face.Gender)
	if err != nil {
		return nil, &AttributeError{Kind: AttrExternalFailure, Message: err.Error(), Err: err}
	}

	category := face.DominantGender
	if _, ok := probs[category]; !ok {
		category = dominant(probs)
	}

	return &AttributeResult{
		ApproximateAge:        face.Age,
		DominantCategory:      category,
		CategoryProbabilities: probs,
	}, nil
}

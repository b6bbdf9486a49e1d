// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// File upload constants
const (
	// MaxUploadSize is the maximum multipart body size in bytes (20MB)
	MaxUploadSize = 20 << 20

	// MaxJSONBodySize caps JSON request bodies (1MB)
	MaxJSONBodySize = 1 << 20
)

// Cache constants
const (
	// DefaultRecordTTLSeconds is the TTL for cached neighborhood reads
	DefaultRecordTTLSeconds = 60

	// MetricsNamespace prefixes every exported Prometheus metric
	MetricsNamespace = "facegate"
)

// Face analysis constants
const (
	// DefaultVerifyModel is the model requested from the face-analysis service
	DefaultVerifyModel = "Facenet"
)

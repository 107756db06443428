// Package qdrant provides a wrapper around the Qdrant Go client with
// simplified APIs for the assessment collection.
package qdrant

import (
	"time"
)

const (
	// DefaultCollectionPrefix is prepended to all collection names.
	DefaultCollectionPrefix = "tm_"

	// DefaultHost is the default Qdrant host.
	DefaultHost = "localhost"

	// DefaultPort is the default Qdrant gRPC port.
	DefaultPort = 6334

	// DefaultTimeout is the default operation timeout.
	DefaultTimeout = 30 * time.Second
)

// ClientConfig holds configuration for the Qdrant client.
type ClientConfig struct {
	// Host is the Qdrant server host.
	Host string

	// Port is the Qdrant gRPC port.
	Port int

	// APIKey for authentication (optional).
	APIKey string

	// UseTLS enables TLS connection.
	UseTLS bool

	// CollectionPrefix namespaces collections (defaults to "tm_").
	CollectionPrefix string

	// Timeout for operations.
	Timeout time.Duration
}

// DefaultClientConfig returns sensible defaults for local development.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:             DefaultHost,
		Port:             DefaultPort,
		CollectionPrefix: DefaultCollectionPrefix,
		Timeout:          DefaultTimeout,
	}
}

// CollectionConfig defines the configuration for creating a collection.
type CollectionConfig struct {
	// Name is the collection name (will be prefixed).
	Name string

	// VectorSize is the embedding dimension (1536 for ada-002).
	VectorSize uint64

	// OnDiskPayload stores payload on disk to save RAM.
	OnDiskPayload bool
}

// DefaultCollectionConfig returns defaults for an assessment collection.
func DefaultCollectionConfig(name string) CollectionConfig {
	return CollectionConfig{
		Name:          name,
		VectorSize:    1536,
		OnDiskPayload: true,
	}
}

// Payload contains the searchable metadata for one assessment.
type Payload struct {
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	JobLevels        string    `json:"job_levels"`
	Languages        string    `json:"languages"`
	AssessmentLength string    `json:"assessment_length"`
	RemoteTesting    string    `json:"remote_testing"`
	AdaptiveIRT      string    `json:"adaptive_irt"`
	TestTypes        []string  `json:"test_type"`
	URL              string    `json:"url"`
	IndexedAt        time.Time `json:"indexed_at"`
}

// Point represents a point to upsert.
type Point struct {
	// ID is the unique numeric point identifier.
	ID uint64

	// Vector is the embedding vector.
	Vector []float32

	// Payload is the metadata associated with this point.
	Payload Payload
}

// SearchRequest defines parameters for a dense similarity search.
type SearchRequest struct {
	// Vector is the query embedding.
	Vector []float32

	// Limit is the maximum number of results to return.
	Limit uint64

	// Filter constrains the search to matching assessments.
	Filter *SearchFilter

	// ScoreThreshold filters results below this score.
	ScoreThreshold *float32
}

// SearchFilter defines metadata filter conditions.
type SearchFilter struct {
	// RemoteTesting filters by remote testing support ("Yes"/"No").
	RemoteTesting string

	// AdaptiveIRT filters by adaptive/IRT support ("Yes"/"No").
	AdaptiveIRT string

	// TestTypes matches assessments carrying any of these test types.
	TestTypes []string
}

// SearchResult represents a single search result.
type SearchResult struct {
	// ID is the point identifier.
	ID uint64

	// Score is the cosine similarity score.
	Score float32

	// Payload contains the assessment metadata.
	Payload Payload
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	// Name is the collection name (without prefix).
	Name string

	// PointsCount is the total number of points.
	PointsCount uint64

	// Status is the collection health status.
	Status string
}

// Package recommend matches job descriptions to assessments via dense
// vector search over the indexed catalog.
package recommend

import (
	"context"

	"github.com/talentmatch/talent-match/internal/config"
	apperrors "github.com/talentmatch/talent-match/internal/pkg/errors"
	"github.com/talentmatch/talent-match/internal/pkg/logger"
	"github.com/talentmatch/talent-match/internal/qdrant"
)

// Embedder generates the query embedding.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Searcher performs the vector search.
type Searcher interface {
	Search(ctx context.Context, collection string, req qdrant.SearchRequest) ([]qdrant.SearchResult, error)
}

// QueryRewriter expands a query before embedding.
type QueryRewriter interface {
	Rewrite(ctx context.Context, query string) string
}

// Request describes one recommendation query.
type Request struct {
	// Query is the job description or free-text query.
	Query string

	// RemoteTesting filters by remote testing support ("Yes"/"No", empty = no filter).
	RemoteTesting string

	// AdaptiveIRT filters by adaptive/IRT support ("Yes"/"No", empty = no filter).
	AdaptiveIRT string

	// TestTypes restricts results to assessments carrying any of these types.
	TestTypes []string

	// Limit caps the number of results (0 = configured default).
	Limit int

	// Rewrite enables chat-based query expansion.
	Rewrite bool
}

// Recommendation is one matched assessment.
type Recommendation struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	JobLevels        string   `json:"job_levels"`
	AssessmentLength string   `json:"assessment_length"`
	RemoteTesting    string   `json:"remote_testing"`
	AdaptiveIRT      string   `json:"adaptive_irt"`
	TestTypes        []string `json:"test_type"`
	URL              string   `json:"url"`
	Score            float32  `json:"score"`
}

// Service handles recommendation queries.
type Service struct {
	embedder     Embedder
	searcher     Searcher
	rewriter     QueryRewriter
	collection   string
	defaultLimit int
	logger       *logger.Logger
}

// NewService creates a recommendation service.
// rewriter may be nil to disable query expansion.
func NewService(embedder Embedder, searcher Searcher, rewriter QueryRewriter, collection string, cfg config.RecommendConfig, log *logger.Logger) *Service {
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}

	if log == nil {
		log = logger.Default()
	}

	return &Service{
		embedder:     embedder,
		searcher:     searcher,
		rewriter:     rewriter,
		collection:   collection,
		defaultLimit: defaultLimit,
		logger:       log.WithComponent("recommend"),
	}
}

// Recommend returns assessments matching the request, best first.
func (s *Service) Recommend(ctx context.Context, req Request) ([]Recommendation, error) {
	if req.Query == "" {
		return nil, apperrors.ValidationError("query cannot be empty")
	}

	query := req.Query
	if req.Rewrite && s.rewriter != nil {
		query = s.rewriter.Rewrite(ctx, query)
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	searchReq := qdrant.SearchRequest{
		Vector: vector,
		Limit:  uint64(limit),
		Filter: buildFilter(req),
	}

	results, err := s.searcher.Search(ctx, s.collection, searchReq)
	if err != nil {
		return nil, apperrors.RetrieverError("vector search failed", err)
	}

	s.logger.Debug("recommendation served",
		"query_len", len(req.Query),
		"rewritten", req.Rewrite,
		"results", len(results))

	recommendations := make([]Recommendation, 0, len(results))
	for _, r := range results {
		recommendations = append(recommendations, Recommendation{
			Name:             r.Payload.Name,
			Category:         r.Payload.Category,
			Description:      r.Payload.Description,
			JobLevels:        r.Payload.JobLevels,
			AssessmentLength: r.Payload.AssessmentLength,
			RemoteTesting:    r.Payload.RemoteTesting,
			AdaptiveIRT:      r.Payload.AdaptiveIRT,
			TestTypes:        r.Payload.TestTypes,
			URL:              r.Payload.URL,
			Score:            r.Score,
		})
	}

	return recommendations, nil
}

// buildFilter converts request filters to a search filter, nil when unfiltered.
func buildFilter(req Request) *qdrant.SearchFilter {
	if req.RemoteTesting == "" && req.AdaptiveIRT == "" && len(req.TestTypes) == 0 {
		return nil
	}

	return &qdrant.SearchFilter{
		RemoteTesting: req.RemoteTesting,
		AdaptiveIRT:   req.AdaptiveIRT,
		TestTypes:     req.TestTypes,
	}
}

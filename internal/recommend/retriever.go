package recommend

import (
	"context"

	"github.com/talentmatch/talent-match/internal/evaluation"
)

// Retriever adapts the service for offline retrieval quality measurement.
// Each labeled query is answered by name so results can be compared
// against ground truth sets.
func (s *Service) Retriever(rewrite bool) evaluation.RetrieveFunc {
	return func(ctx context.Context, query string, k int) ([]string, error) {
		recs, err := s.Recommend(ctx, Request{
			Query:   query,
			Limit:   k,
			Rewrite: rewrite,
		})
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(recs))
		for _, r := range recs {
			names = append(names, r.Name)
		}
		return names, nil
	}
}

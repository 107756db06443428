package evaluation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/talentmatch/talent-match/internal/pkg/errors"
)

// RetrieveFunc is the retriever collaborator contract: given a query
// and a cutoff k, return up to k assessment ids, best match first.
// Everything behind it (embedding, vector search, filtering, query
// rewriting) is opaque to the evaluator.
type RetrieveFunc func(ctx context.Context, query string, k int) ([]string, error)

// Options controls evaluation behavior.
type Options struct {
	// BestEffort records a zero-score entry for a query whose retrieval
	// failed and continues, instead of aborting the run. Failed entries
	// are flagged so they cannot be mistaken for genuine zero scores.
	BestEffort bool

	// Concurrency bounds the number of in-flight retriever calls.
	// Values below 2 evaluate sequentially. Results are reassembled in
	// input order regardless.
	Concurrency int
}

// Evaluate runs the retriever over every labeled query and computes
// Recall@K and AP@K per query plus their arithmetic means.
//
// Queries with empty ground truth are listed in the report but never
// retrieved or scored. Identical inputs always produce an identical
// report; the evaluator performs no caching, retries, or I/O of its own.
func Evaluate(ctx context.Context, queries []LabeledQuery, retrieve RetrieveFunc, k int, opts Options) (*Report, error) {
	if k < 1 {
		return nil, apperrors.InvalidConfigError(fmt.Sprintf("k must be >= 1, got %d", k))
	}
	if retrieve == nil {
		return nil, apperrors.InvalidConfigError("retrieve function must not be nil")
	}

	scorable := 0
	for _, q := range queries {
		if len(q.RelevantIDs) > 0 {
			scorable++
		}
	}
	if scorable == 0 {
		return nil, apperrors.EmptyDatasetError("no query has a non-empty ground-truth set")
	}

	perQuery := make([]QueryScore, len(queries))

	if opts.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)

		for i, q := range queries {
			g.Go(func() error {
				score, err := scoreQuery(gctx, q, retrieve, k, opts.BestEffort)
				if err != nil {
					return err
				}
				perQuery[i] = score
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, q := range queries {
			score, err := scoreQuery(ctx, q, retrieve, k, opts.BestEffort)
			if err != nil {
				return nil, err
			}
			perQuery[i] = score
		}
	}

	report := &Report{
		PerQuery: perQuery,
		K:        k,
	}

	for _, s := range perQuery {
		if !s.Scored {
			continue
		}
		report.ScoredQueries++
		report.MeanRecallAtK += s.RecallAtK
		report.MeanAPAtK += s.APAtK
	}

	n := float64(report.ScoredQueries)
	report.MeanRecallAtK /= n
	report.MeanAPAtK /= n

	return report, nil
}

// scoreQuery evaluates a single labeled query. Queries without ground
// truth are returned unscored without touching the retriever.
func scoreQuery(ctx context.Context, q LabeledQuery, retrieve RetrieveFunc, k int, bestEffort bool) (QueryScore, error) {
	if len(q.RelevantIDs) == 0 {
		return QueryScore{Query: q.Query}, nil
	}

	retrieved, err := retrieve(ctx, q.Query, k)
	if err != nil {
		if bestEffort {
			return QueryScore{
				Query:  q.Query,
				Scored: true,
				Failed: true,
			}, nil
		}
		return QueryScore{}, apperrors.RetrieverError("retrieval failed", err).WithDetail("query", q.Query)
	}

	if len(retrieved) > k {
		retrieved = retrieved[:k]
	}

	relevant := relevantSet(q.RelevantIDs)

	return QueryScore{
		Query:     q.Query,
		Retrieved: retrieved,
		RecallAtK: RecallAtK(relevant, retrieved, k),
		APAtK:     AveragePrecisionAtK(relevant, retrieved, k),
		Scored:    true,
	}, nil
}

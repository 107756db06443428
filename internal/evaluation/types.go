// Package evaluation computes retrieval quality metrics over a labeled query set.
package evaluation

// LabeledQuery pairs a query with its ground-truth relevant assessment names.
type LabeledQuery struct {
	// Query is the free-text query (typically a job description).
	Query string `json:"query"`

	// Description is an optional human note about the query.
	Description string `json:"description,omitempty"`

	// RelevantIDs is the ground-truth set of relevant assessment names.
	// Duplicates are ignored. A query with no relevant ids is listed in
	// the report but excluded from aggregate metrics.
	RelevantIDs []string `json:"relevant_assessments"`
}

// QueryScore contains metrics for a single query.
type QueryScore struct {
	// Query is the original query text.
	Query string `json:"query"`

	// Retrieved is the ranked list of ids the retriever returned (top-K).
	Retrieved []string `json:"retrieved,omitempty"`

	// RecallAtK is the fraction of relevant ids found in the top-K.
	RecallAtK float64 `json:"recall_at_k"`

	// APAtK is the average precision at K.
	APAtK float64 `json:"ap_at_k"`

	// Scored indicates whether this query contributes to the means.
	// False when the query has no ground truth.
	Scored bool `json:"scored"`

	// Failed indicates the retriever failed and a zero score was
	// recorded in best-effort mode. Distinguishes a failure from a
	// genuine zero score.
	Failed bool `json:"failed,omitempty"`
}

// Report aggregates metrics across a query set. It is a value object:
// built once per evaluation run and never mutated afterwards.
type Report struct {
	// PerQuery lists one record per input query, in input order.
	PerQuery []QueryScore `json:"per_query"`

	// MeanRecallAtK is the arithmetic mean of RecallAtK over scored queries.
	MeanRecallAtK float64 `json:"mean_recall_at_k"`

	// MeanAPAtK is the arithmetic mean of APAtK over scored queries (MAP@K).
	MeanAPAtK float64 `json:"mean_ap_at_k"`

	// ScoredQueries is the number of queries included in the means.
	ScoredQueries int `json:"scored_queries"`

	// K is the cutoff the report was computed at.
	K int `json:"k"`
}

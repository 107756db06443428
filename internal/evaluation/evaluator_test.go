package evaluation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	apperrors "github.com/talentmatch/talent-match/internal/pkg/errors"
)

// fixedRetriever returns canned rankings keyed by query text.
func fixedRetriever(rankings map[string][]string) RetrieveFunc {
	return func(_ context.Context, query string, k int) ([]string, error) {
		r := rankings[query]
		if len(r) > k {
			r = r[:k]
		}
		return r, nil
	}
}

func TestEvaluate(t *testing.T) {
	queries := []LabeledQuery{
		{Query: "q1", RelevantIDs: []string{"X", "Y"}},
		{Query: "q2", RelevantIDs: []string{"X"}},
	}
	retrieve := fixedRetriever(map[string][]string{
		"q1": {"X", "Z", "Y"},
		"q2": {"A", "B", "C"},
	})

	report, err := Evaluate(context.Background(), queries, retrieve, 3, Options{})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if len(report.PerQuery) != 2 {
		t.Fatalf("len(PerQuery) = %d, want 2", len(report.PerQuery))
	}

	q1 := report.PerQuery[0]
	if !almostEqual(q1.RecallAtK, 1.0) {
		t.Errorf("q1 RecallAtK = %v, want 1.0", q1.RecallAtK)
	}
	if !almostEqual(q1.APAtK, (1.0+2.0/3.0)/2.0) {
		t.Errorf("q1 APAtK = %v, want 0.8333", q1.APAtK)
	}

	q2 := report.PerQuery[1]
	if q2.RecallAtK != 0 || q2.APAtK != 0 {
		t.Errorf("q2 scores = (%v, %v), want (0, 0)", q2.RecallAtK, q2.APAtK)
	}

	if !almostEqual(report.MeanRecallAtK, 0.5) {
		t.Errorf("MeanRecallAtK = %v, want 0.5", report.MeanRecallAtK)
	}
	if !almostEqual(report.MeanAPAtK, (1.0+2.0/3.0)/2.0/2.0) {
		t.Errorf("MeanAPAtK = %v, want %v", report.MeanAPAtK, (1.0+2.0/3.0)/2.0/2.0)
	}
	if report.ScoredQueries != 2 {
		t.Errorf("ScoredQueries = %d, want 2", report.ScoredQueries)
	}
	if report.K != 3 {
		t.Errorf("K = %d, want 3", report.K)
	}
}

func TestEvaluateInvalidK(t *testing.T) {
	called := false
	retrieve := func(context.Context, string, int) ([]string, error) {
		called = true
		return nil, nil
	}

	queries := []LabeledQuery{{Query: "q", RelevantIDs: []string{"X"}}}

	for _, k := range []int{0, -1} {
		_, err := Evaluate(context.Background(), queries, retrieve, k, Options{})
		if !apperrors.IsInvalidConfig(err) {
			t.Errorf("Evaluate(k=%d) error = %v, want invalid configuration", k, err)
		}
	}

	if called {
		t.Error("retriever must not be called when k < 1")
	}
}

func TestEvaluateEmptyDataset(t *testing.T) {
	retrieve := fixedRetriever(nil)

	tests := []struct {
		name    string
		queries []LabeledQuery
	}{
		{"no queries", nil},
		{"only empty ground truth", []LabeledQuery{{Query: "q"}, {Query: "r"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(context.Background(), tt.queries, retrieve, 5, Options{})
			if !apperrors.IsEmptyDataset(err) {
				t.Errorf("Evaluate() error = %v, want empty dataset", err)
			}
		})
	}
}

// A query with empty ground truth is listed unscored and excluded from
// the means; the retriever is never invoked for it.
func TestEvaluateUnscoredQuery(t *testing.T) {
	var calls int32
	retrieve := func(_ context.Context, query string, _ int) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"X"}, nil
	}

	queries := []LabeledQuery{
		{Query: "scored", RelevantIDs: []string{"X"}},
		{Query: "unscored"},
	}

	report, err := Evaluate(context.Background(), queries, retrieve, 5, Options{})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("retriever calls = %d, want 1", calls)
	}
	if len(report.PerQuery) != 2 {
		t.Fatalf("len(PerQuery) = %d, want 2", len(report.PerQuery))
	}
	if !report.PerQuery[0].Scored {
		t.Error("scored query flagged unscored")
	}
	if report.PerQuery[1].Scored {
		t.Error("empty-ground-truth query must be unscored")
	}
	if report.ScoredQueries != 1 {
		t.Errorf("ScoredQueries = %d, want 1", report.ScoredQueries)
	}
	if !almostEqual(report.MeanRecallAtK, 1.0) {
		t.Errorf("MeanRecallAtK = %v, want 1.0 (unscored query excluded)", report.MeanRecallAtK)
	}
}

func TestEvaluateFailFast(t *testing.T) {
	boom := fmt.Errorf("connection reset")
	retrieve := func(_ context.Context, query string, _ int) ([]string, error) {
		if query == "bad" {
			return nil, boom
		}
		return []string{"X"}, nil
	}

	queries := []LabeledQuery{
		{Query: "good", RelevantIDs: []string{"X"}},
		{Query: "bad", RelevantIDs: []string{"Y"}},
	}

	_, err := Evaluate(context.Background(), queries, retrieve, 5, Options{})
	if err == nil {
		t.Fatal("Evaluate() error = nil, want retriever failure")
	}
	if !apperrors.HasCode(err, apperrors.CodeRetriever) {
		t.Errorf("error = %v, want RETRIEVER_ERROR", err)
	}
}

func TestEvaluateBestEffort(t *testing.T) {
	retrieve := func(_ context.Context, query string, _ int) ([]string, error) {
		if query == "bad" {
			return nil, fmt.Errorf("timeout")
		}
		return []string{"X"}, nil
	}

	queries := []LabeledQuery{
		{Query: "good", RelevantIDs: []string{"X"}},
		{Query: "bad", RelevantIDs: []string{"Y"}},
	}

	report, err := Evaluate(context.Background(), queries, retrieve, 5, Options{BestEffort: true})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	bad := report.PerQuery[1]
	if !bad.Failed {
		t.Error("failed query must carry the Failed flag")
	}
	if !bad.Scored {
		t.Error("best-effort zero-score entry still counts toward the means")
	}
	if bad.RecallAtK != 0 || bad.APAtK != 0 {
		t.Errorf("failed query scores = (%v, %v), want (0, 0)", bad.RecallAtK, bad.APAtK)
	}
	if report.PerQuery[0].Failed {
		t.Error("successful query must not be flagged Failed")
	}

	// Mean over both entries: (1 + 0) / 2.
	if !almostEqual(report.MeanRecallAtK, 0.5) {
		t.Errorf("MeanRecallAtK = %v, want 0.5", report.MeanRecallAtK)
	}
}

// Oversized retriever responses are truncated to k before scoring.
func TestEvaluateTruncatesResult(t *testing.T) {
	retrieve := func(context.Context, string, int) ([]string, error) {
		return []string{"A", "B", "X"}, nil
	}

	queries := []LabeledQuery{{Query: "q", RelevantIDs: []string{"X"}}}

	report, err := Evaluate(context.Background(), queries, retrieve, 2, Options{})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if len(report.PerQuery[0].Retrieved) != 2 {
		t.Errorf("len(Retrieved) = %d, want 2", len(report.PerQuery[0].Retrieved))
	}
	if report.PerQuery[0].RecallAtK != 0 {
		t.Errorf("RecallAtK = %v, want 0 (X was cut off)", report.PerQuery[0].RecallAtK)
	}
}

// Parallel evaluation must produce the same report as sequential,
// with per-query records in input order.
func TestEvaluateConcurrent(t *testing.T) {
	var mu sync.Mutex
	rankings := make(map[string][]string)
	var queries []LabeledQuery
	for i := 0; i < 20; i++ {
		q := fmt.Sprintf("query-%02d", i)
		id := fmt.Sprintf("id-%02d", i)
		rankings[q] = []string{id}
		queries = append(queries, LabeledQuery{Query: q, RelevantIDs: []string{id}})
	}

	retrieve := func(_ context.Context, query string, k int) ([]string, error) {
		mu.Lock()
		r := rankings[query]
		mu.Unlock()
		return r, nil
	}

	sequential, err := Evaluate(context.Background(), queries, retrieve, 5, Options{})
	if err != nil {
		t.Fatalf("sequential Evaluate() error = %v", err)
	}

	parallel, err := Evaluate(context.Background(), queries, retrieve, 5, Options{Concurrency: 8})
	if err != nil {
		t.Fatalf("parallel Evaluate() error = %v", err)
	}

	if len(parallel.PerQuery) != len(sequential.PerQuery) {
		t.Fatalf("per-query count mismatch: %d vs %d", len(parallel.PerQuery), len(sequential.PerQuery))
	}
	for i := range parallel.PerQuery {
		if parallel.PerQuery[i].Query != queries[i].Query {
			t.Errorf("PerQuery[%d].Query = %s, want %s (input order)", i, parallel.PerQuery[i].Query, queries[i].Query)
		}
	}
	if !almostEqual(parallel.MeanRecallAtK, sequential.MeanRecallAtK) {
		t.Errorf("MeanRecallAtK mismatch: %v vs %v", parallel.MeanRecallAtK, sequential.MeanRecallAtK)
	}
	if !almostEqual(parallel.MeanAPAtK, sequential.MeanAPAtK) {
		t.Errorf("MeanAPAtK mismatch: %v vs %v", parallel.MeanAPAtK, sequential.MeanAPAtK)
	}
}

func TestLoadQueries(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "queries.json")

	content := `[
  {
    "query": "java developers who can collaborate",
    "description": "collaboration focus",
    "relevant_assessments": ["Java 8 (New)", "Core Java (Entry Level) (New)"]
  },
  {
    "query": "uncurated query",
    "relevant_assessments": []
  }
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	queries, err := LoadQueries(path)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}

	if len(queries) != 2 {
		t.Fatalf("len(queries) = %d, want 2", len(queries))
	}
	if queries[0].Query != "java developers who can collaborate" {
		t.Errorf("Query = %q", queries[0].Query)
	}
	if len(queries[0].RelevantIDs) != 2 {
		t.Errorf("len(RelevantIDs) = %d, want 2", len(queries[0].RelevantIDs))
	}
	if len(queries[1].RelevantIDs) != 0 {
		t.Errorf("len(RelevantIDs) = %d, want 0", len(queries[1].RelevantIDs))
	}

	if _, err := LoadQueries(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("LoadQueries(missing) error = nil, want error")
	}
}

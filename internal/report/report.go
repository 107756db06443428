// Package report renders evaluation results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/talentmatch/talent-match/internal/evaluation"
)

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, r *evaluation.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human-readable summary with per-query rows.
func WriteText(w io.Writer, r *evaluation.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "QUERY\tRECALL\tAP\tSTATUS")
	for _, q := range r.PerQuery {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%s\n",
			truncate(q.Query, 60), q.RecallAtK, q.APAtK, status(q))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Queries scored:  %d of %d\n", r.ScoredQueries, len(r.PerQuery))
	fmt.Fprintf(w, "Mean Recall@%d:   %.4f\n", r.K, r.MeanRecallAtK)
	fmt.Fprintf(w, "MAP@%d:           %.4f\n", r.K, r.MeanAPAtK)

	return nil
}

func status(q evaluation.QueryScore) string {
	switch {
	case q.Failed:
		return "failed"
	case !q.Scored:
		return "unscored"
	default:
		return "ok"
	}
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentmatch/talent-match/internal/bus"
	"github.com/talentmatch/talent-match/internal/evaluation"
	"github.com/talentmatch/talent-match/internal/pkg/hash"
	"github.com/talentmatch/talent-match/internal/report"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure retrieval quality against a labeled query set",
		Long: `Run every labeled query through the recommender and compute
Recall@K and MAP@K against the ground-truth relevant assessments.

Queries without ground truth are listed in the report but excluded from
the aggregate metrics. By default the run aborts on the first retriever
failure; with --best-effort failed queries score zero and the run
continues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queriesPath, _ := cmd.Flags().GetString("queries")
			k, _ := cmd.Flags().GetInt("k")
			bestEffort, _ := cmd.Flags().GetBool("best-effort")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			rewrite, _ := cmd.Flags().GetBool("rewrite")
			outputPath, _ := cmd.Flags().GetString("output")
			xlsxPath, _ := cmd.Flags().GetString("xlsx")
			format, _ := cmd.Flags().GetString("format")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			queries, err := evaluation.LoadQueries(queriesPath)
			if err != nil {
				return err
			}

			result, err := evaluation.Evaluate(cmd.Context(), queries, a.service.Retriever(rewrite), k, evaluation.Options{
				BestEffort:  bestEffort,
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}

			publishEvaluation(cmd, a, result)

			if xlsxPath != "" {
				if err := report.WriteXLSX(xlsxPath, result); err != nil {
					return err
				}
				a.log.Info("wrote workbook", "path", xlsxPath)
			}

			if outputPath != "" && outputPath != "-" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating report file: %w", err)
				}
				defer f.Close()
				if err := report.WriteJSON(f, result); err != nil {
					return err
				}
				a.log.Info("wrote report", "path", outputPath)
			}

			if format == "json" {
				return report.WriteJSON(os.Stdout, result)
			}
			return report.WriteText(os.Stdout, result)
		},
	}

	cmd.Flags().String("queries", "data/test_queries.json", "labeled queries JSON path")
	cmd.Flags().IntP("k", "k", 5, "evaluation cutoff")
	cmd.Flags().Bool("best-effort", false, "score failed queries as zero instead of aborting")
	cmd.Flags().Int("concurrency", 0, "parallel retrievals (0 = sequential)")
	cmd.Flags().Bool("rewrite", false, "evaluate with chat-based query expansion")
	cmd.Flags().StringP("output", "o", "", "also write the report as JSON to a file")
	cmd.Flags().String("xlsx", "", "also write the report as an xlsx workbook")

	return cmd
}

// publishEvaluation emits a completion event; failures only log.
func publishEvaluation(cmd *cobra.Command, a *app, result *evaluation.Report) {
	events, err := bus.NewBus(a.cfg.Bus)
	if err != nil {
		a.log.Warn("creating event bus", "error", err)
		return
	}
	defer events.Close()

	event := bus.Event{
		ID:        hash.SHA256Short([]byte(fmt.Sprintf("eval-%d", time.Now().UnixNano())), 16),
		Type:      bus.TopicEvaluationCompleted,
		Source:    "evaluate",
		Timestamp: time.Now().Unix(),
		Payload: map[string]any{
			"k":              result.K,
			"scored_queries": result.ScoredQueries,
			"mean_recall":    result.MeanRecallAtK,
			"map":            result.MeanAPAtK,
		},
	}
	if err := events.Publish(cmd.Context(), bus.TopicEvaluationCompleted, event); err != nil {
		a.log.Warn("publishing evaluation event", "error", err)
	}
}

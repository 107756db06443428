package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentmatch/talent-match/internal/bus"
	"github.com/talentmatch/talent-match/internal/ingest"
)

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Ingest an assessment catalog CSV into the vector store",
		Long: `Load an assessment catalog CSV, embed each assessment, and index
the embeddings into Qdrant. Re-running updates existing assessments in
place because point ids derive from assessment names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath, _ := cmd.Flags().GetString("catalog")
			format, _ := cmd.Flags().GetString("format")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			events, err := bus.NewBus(a.cfg.Bus)
			if err != nil {
				return fmt.Errorf("creating event bus: %w", err)
			}
			defer events.Close()

			pipeline := ingest.NewPipeline(a.embedder, a.qdrant, events, a.cfg.Qdrant.Collection, a.cfg.Ingest, a.log)

			result, err := pipeline.Run(cmd.Context(), catalogPath)
			if err != nil {
				return err
			}

			if format == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Printf("Indexed %d of %d assessments (%d skipped) in %s\n",
				result.Indexed, result.Total, result.Skipped, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().String("catalog", "data/assessments.csv", "catalog CSV path")
	cmd.MarkFlagRequired("catalog")

	return cmd
}

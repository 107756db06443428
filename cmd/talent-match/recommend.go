package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/talentmatch/talent-match/internal/recommend"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend [query]",
		Short: "Recommend assessments for a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remoteTesting, _ := cmd.Flags().GetString("remote-testing")
			adaptiveIRT, _ := cmd.Flags().GetString("adaptive-irt")
			testTypes, _ := cmd.Flags().GetStringSlice("test-type")
			limit, _ := cmd.Flags().GetInt("limit")
			rewrite, _ := cmd.Flags().GetBool("rewrite")
			format, _ := cmd.Flags().GetString("format")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			recs, err := a.service.Recommend(cmd.Context(), recommend.Request{
				Query:         args[0],
				RemoteTesting: remoteTesting,
				AdaptiveIRT:   adaptiveIRT,
				TestTypes:     testTypes,
				Limit:         limit,
				Rewrite:       rewrite || a.cfg.Recommend.EnableRewrite,
			})
			if err != nil {
				return err
			}

			if format == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}

			if len(recs) == 0 {
				fmt.Println("No matching assessments found.")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tNAME\tTEST TYPES\tREMOTE\tURL")
			for _, r := range recs {
				fmt.Fprintf(tw, "%.4f\t%s\t%s\t%s\t%s\n",
					r.Score, r.Name, strings.Join(r.TestTypes, ","), r.RemoteTesting, r.URL)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().String("remote-testing", "", `filter by remote testing support ("Yes"/"No")`)
	cmd.Flags().String("adaptive-irt", "", `filter by adaptive/IRT support ("Yes"/"No")`)
	cmd.Flags().StringSlice("test-type", nil, "restrict to assessments with any of these test types")
	cmd.Flags().IntP("limit", "n", 0, "maximum results (0 = configured default)")
	cmd.Flags().Bool("rewrite", false, "expand the query with a chat model before embedding")

	return cmd
}

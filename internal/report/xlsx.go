package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/talentmatch/talent-match/internal/evaluation"
)

const (
	summarySheet = "Summary"
	queriesSheet = "Queries"
)

// WriteXLSX writes the report as a workbook with a summary sheet and a
// per-query sheet.
func WriteXLSX(path string, r *evaluation.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"K", r.K},
		{fmt.Sprintf("Mean Recall@%d", r.K), r.MeanRecallAtK},
		{fmt.Sprintf("MAP@%d", r.K), r.MeanAPAtK},
		{"Scored queries", r.ScoredQueries},
		{"Total queries", len(r.PerQuery)},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(queriesSheet); err != nil {
		return fmt.Errorf("creating queries sheet: %w", err)
	}

	rows := [][]any{
		{"Query", fmt.Sprintf("Recall@%d", r.K), fmt.Sprintf("AP@%d", r.K), "Status", "Retrieved"},
	}
	for _, q := range r.PerQuery {
		rows = append(rows, []any{
			q.Query,
			q.RecallAtK,
			q.APAtK,
			status(q),
			strings.Join(q.Retrieved, "; "),
		})
	}
	if err := writeRows(f, queriesSheet, rows); err != nil {
		return err
	}

	if err := f.SetColWidth(queriesSheet, "A", "A", 60); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(queriesSheet, "E", "E", 60); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

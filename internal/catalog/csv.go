package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	apperrors "github.com/talentmatch/talent-match/internal/pkg/errors"
)

// LoadCSV reads an assessment catalog from a CSV file. Columns are
// resolved by header name, so column order does not matter. Rows
// without a name are skipped.
func LoadCSV(path string) ([]Assessment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses catalog CSV data from a reader.
func ReadCSV(r io.Reader) ([]Assessment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.ValidationError("catalog CSV is empty or has no header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[CleanText(name)] = i
	}

	if _, ok := cols["name"]; !ok {
		return nil, apperrors.ValidationError("catalog CSV is missing the name column")
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return CleanText(row[idx])
	}

	var assessments []Assessment
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog row: %w", err)
		}

		name := field(row, "name")
		if name == "" {
			continue
		}

		assessments = append(assessments, Assessment{
			Name:             name,
			Category:         field(row, "category"),
			Description:      field(row, "description"),
			JobLevels:        field(row, "job_levels"),
			Languages:        field(row, "languages"),
			AssessmentLength: field(row, "assessment_length"),
			RemoteTesting:    field(row, "remote_testing"),
			AdaptiveIRT:      field(row, "adaptive_irt"),
			TestTypes:        ParseTestTypes(field(row, "test_type")),
			URL:              field(row, "url"),
		})
	}

	return assessments, nil
}

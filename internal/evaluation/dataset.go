package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadQueries reads a labeled query set from a JSON file. The file is
// an array of objects with "query", optional "description", and
// "relevant_assessments" fields.
func LoadQueries(path string) ([]LabeledQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query set: %w", err)
	}

	var queries []LabeledQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("parsing query set %s: %w", path, err)
	}

	return queries, nil
}

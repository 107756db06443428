// Package catalog defines the assessment catalog data model and loaders.
package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// Assessment is one product catalog entry.
type Assessment struct {
	// Name is the assessment title and doubles as its identifier.
	Name string `json:"name"`

	// Category distinguishes individual tests from pre-packaged solutions.
	Category string `json:"category"`

	// Description is the catalog description text.
	Description string `json:"description"`

	// JobLevels lists the target job levels as free text.
	JobLevels string `json:"job_levels"`

	// Languages lists supported languages as free text.
	Languages string `json:"languages"`

	// AssessmentLength is the approximate completion time in minutes.
	AssessmentLength string `json:"assessment_length"`

	// RemoteTesting is "Yes" or "No".
	RemoteTesting string `json:"remote_testing"`

	// AdaptiveIRT is "Yes" or "No".
	AdaptiveIRT string `json:"adaptive_irt"`

	// TestTypes are the test type labels (e.g. "Knowledge & Skills").
	TestTypes []string `json:"test_type"`

	// URL is the catalog detail page.
	URL string `json:"url"`
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanText normalizes free text: newlines become spaces and runs of
// whitespace collapse to a single space.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ParseTestTypes splits a comma-separated test type cell into labels.
func ParseTestTypes(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// CombinedText concatenates the fields used for embedding. The layout
// matters: the embedding index is built from exactly this text, so
// queries and documents share one representation.
func (a Assessment) CombinedText() string {
	return fmt.Sprintf("%s. %s. %s. Job levels: %s. Test type: %s.",
		a.Name,
		a.Category,
		a.Description,
		a.JobLevels,
		strings.Join(a.TestTypes, ", "),
	)
}

package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `name,category,description,job_levels,languages,assessment_length,remote_testing,adaptive_irt,test_type,url
Java 8 (New),Individual Test Solutions,"Multi-choice test that measures
Java 8 knowledge.","Mid-Professional, Professional",English (USA),30,Yes,No,Knowledge & Skills,https://example.com/java-8
Global Skills Assessment,Pre-packaged Job Solutions,Broad skills battery.,Entry-Level,English (USA),45,Yes,Yes,"Competencies, Personality & Behavior",https://example.com/gsa
,,,,,,,,,
`

func TestReadCSV(t *testing.T) {
	assessments, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if len(assessments) != 2 {
		t.Fatalf("len(assessments) = %d, want 2 (nameless row skipped)", len(assessments))
	}

	java := assessments[0]
	if java.Name != "Java 8 (New)" {
		t.Errorf("Name = %q", java.Name)
	}
	if java.Description != "Multi-choice test that measures Java 8 knowledge." {
		t.Errorf("Description not cleaned: %q", java.Description)
	}
	if java.RemoteTesting != "Yes" || java.AdaptiveIRT != "No" {
		t.Errorf("flags = (%s, %s), want (Yes, No)", java.RemoteTesting, java.AdaptiveIRT)
	}
	if len(java.TestTypes) != 1 || java.TestTypes[0] != "Knowledge & Skills" {
		t.Errorf("TestTypes = %v", java.TestTypes)
	}

	gsa := assessments[1]
	if len(gsa.TestTypes) != 2 {
		t.Fatalf("TestTypes = %v, want two entries", gsa.TestTypes)
	}
	if gsa.TestTypes[1] != "Personality & Behavior" {
		t.Errorf("TestTypes[1] = %q", gsa.TestTypes[1])
	}
}

func TestReadCSVErrors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("ReadCSV(empty) error = nil, want error")
	}

	noName := "category,description\nIndividual,Something\n"
	if _, err := ReadCSV(strings.NewReader(noName)); err == nil {
		t.Error("ReadCSV without name column error = nil, want error")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"  leading and trailing  ", "leading and trailing"},
		{"line\nbreaks\nhere", "line breaks here"},
		{"many   spaces\t\tand tabs", "many spaces and tabs"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseTestTypes(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"Knowledge & Skills", 1},
		{"Competencies, Personality & Behavior", 2},
		{"A, , B", 2},
		{"", 0},
		{"   ", 0},
	}

	for _, tt := range tests {
		if got := ParseTestTypes(tt.input); len(got) != tt.want {
			t.Errorf("ParseTestTypes(%q) = %v, want %d entries", tt.input, got, tt.want)
		}
	}
}

func TestCombinedText(t *testing.T) {
	a := Assessment{
		Name:        "Java 8 (New)",
		Category:    "Individual Test Solutions",
		Description: "Measures Java knowledge.",
		JobLevels:   "Professional",
		TestTypes:   []string{"Knowledge & Skills"},
	}

	want := "Java 8 (New). Individual Test Solutions. Measures Java knowledge. Job levels: Professional. Test type: Knowledge & Skills."
	if got := a.CombinedText(); got != want {
		t.Errorf("CombinedText() = %q, want %q", got, want)
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(CodeValidation, "bad input"),
			want: "VALIDATION_ERROR: bad input",
		},
		{
			name: "with wrapped error",
			err:  Wrap(CodeQdrant, "search failed", fmt.Errorf("connection refused")),
			want: "QDRANT_ERROR: search failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := Wrap(CodeEmbedding, "embed failed", inner)

	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestHasCode(t *testing.T) {
	err := InvalidConfigError("k must be >= 1")

	if !HasCode(err, CodeInvalidConfig) {
		t.Error("HasCode(CodeInvalidConfig) = false, want true")
	}
	if HasCode(err, CodeEmptyDataset) {
		t.Error("HasCode(CodeEmptyDataset) = true, want false")
	}

	// Must see through wrapping layers.
	wrapped := fmt.Errorf("evaluate: %w", err)
	if !HasCode(wrapped, CodeInvalidConfig) {
		t.Error("HasCode should unwrap fmt-wrapped errors")
	}

	if HasCode(fmt.Errorf("plain"), CodeInternal) {
		t.Error("HasCode on a plain error = true, want false")
	}
}

func TestPredicates(t *testing.T) {
	if !IsInvalidConfig(InvalidConfigError("k")) {
		t.Error("IsInvalidConfig = false, want true")
	}
	if !IsEmptyDataset(EmptyDatasetError("no scorable queries")) {
		t.Error("IsEmptyDataset = false, want true")
	}
	if !IsValidation(ValidationError("bad")) {
		t.Error("IsValidation = false, want true")
	}
	if !IsNotFound(NotFoundError("collection")) {
		t.Error("IsNotFound = false, want true")
	}
	if IsNotFound(ValidationError("bad")) {
		t.Error("IsNotFound on validation error = true, want false")
	}
}

func TestWithDetail(t *testing.T) {
	err := RetrieverError("retrieve failed", fmt.Errorf("timeout")).
		WithDetail("query", "java developers").
		WithDetail("k", "10")

	if err.Details["query"] != "java developers" {
		t.Errorf("Details[query] = %s, want java developers", err.Details["query"])
	}
	if err.Details["k"] != "10" {
		t.Errorf("Details[k] = %s, want 10", err.Details["k"])
	}
}

func TestConstructorCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		code string
	}{
		{NotFoundError("collection"), CodeNotFound},
		{RetrieverError("x", nil), CodeRetriever},
		{EmbeddingError("x", nil), CodeEmbedding},
		{QdrantError("x", nil), CodeQdrant},
		{IngestError("x", nil), CodeIngest},
		{InternalError("x", nil), CodeInternal},
		{TimeoutError("search"), CodeTimeout},
		{ServiceUnavailableError("qdrant"), CodeUnavailable},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
		}
	}

	if !strings.Contains(TimeoutError("search").Message, "search") {
		t.Error("TimeoutError should mention the operation")
	}
}

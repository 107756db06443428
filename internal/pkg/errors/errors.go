// Package errors provides custom error types and error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes.
const (
	// Caller bugs and data problems.
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidConfig = "INVALID_CONFIGURATION"
	CodeEmptyDataset  = "EMPTY_DATASET"
	CodeNotFound      = "NOT_FOUND"

	// Collaborator failures.
	CodeRetriever = "RETRIEVER_ERROR"
	CodeEmbedding = "EMBEDDING_ERROR"
	CodeQdrant    = "QDRANT_ERROR"
	CodeIngest    = "INGEST_ERROR"

	// Infrastructure.
	CodeInternal    = "INTERNAL_ERROR"
	CodeUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout     = "TIMEOUT"
)

// AppError represents an application error with code and details.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Convenience constructors.

// ValidationError creates a validation error.
func ValidationError(message string) *AppError {
	return New(CodeValidation, message)
}

// InvalidConfigError creates an invalid configuration error. Raised for
// caller bugs such as a non-positive K; never retried.
func InvalidConfigError(message string) *AppError {
	return New(CodeInvalidConfig, message)
}

// EmptyDatasetError signals that no query carries ground truth, so
// aggregate metrics would be undefined.
func EmptyDatasetError(message string) *AppError {
	return New(CodeEmptyDataset, message)
}

// NotFoundError creates a not found error.
func NotFoundError(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// RetrieverError wraps a failure from the retriever collaborator.
func RetrieverError(message string, err error) *AppError {
	return Wrap(CodeRetriever, message, err)
}

// EmbeddingError wraps an embedding API failure.
func EmbeddingError(message string, err error) *AppError {
	return Wrap(CodeEmbedding, message, err)
}

// QdrantError wraps a vector store failure.
func QdrantError(message string, err error) *AppError {
	return Wrap(CodeQdrant, message, err)
}

// IngestError wraps an ingest pipeline failure.
func IngestError(message string, err error) *AppError {
	return Wrap(CodeIngest, message, err)
}

// InternalError creates an internal error.
func InternalError(message string, err error) *AppError {
	return Wrap(CodeInternal, message, err)
}

// TimeoutError creates a timeout error for a specific operation.
func TimeoutError(operation string) *AppError {
	message := "operation timed out"
	if operation != "" {
		message = fmt.Sprintf("%s timed out", operation)
	}
	return New(CodeTimeout, message)
}

// ServiceUnavailableError creates a service unavailable error.
func ServiceUnavailableError(service string) *AppError {
	message := "service unavailable"
	if service != "" {
		message = fmt.Sprintf("%s is unavailable", service)
	}
	return New(CodeUnavailable, message)
}

// HasCode reports whether err (or anything it wraps) is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsInvalidConfig checks if error is an invalid configuration error.
func IsInvalidConfig(err error) bool {
	return HasCode(err, CodeInvalidConfig)
}

// IsEmptyDataset checks if error is an empty dataset error.
func IsEmptyDataset(err error) bool {
	return HasCode(err, CodeEmptyDataset)
}

// IsValidation checks if error is a validation error.
func IsValidation(err error) bool {
	return HasCode(err, CodeValidation)
}

// IsNotFound checks if error is a not found error.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

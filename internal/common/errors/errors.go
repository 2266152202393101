// Package errors provides standardized error handling for the question pipeline.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Caller-facing pipeline errors.
	ErrCodeUnresolvedEntity  ErrorCode = "UNRESOLVED_ENTITY"
	ErrCodeEmptyResult       ErrorCode = "EMPTY_RESULT"
	ErrCodeMalformedQuestion ErrorCode = "MALFORMED_QUESTION"

	// Data provider errors.
	ErrCodeUnknownDataset         ErrorCode = "UNKNOWN_DATASET"
	ErrCodeDatasetUnavailable     ErrorCode = "DATASET_UNAVAILABLE"
	ErrCodeRemoteFetchFailed      ErrorCode = "REMOTE_FETCH_FAILED"
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the status the HTTP boundary should return.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeUnresolvedEntity, ErrCodeEmptyResult, ErrCodeMalformedQuestion:
		return http.StatusBadRequest
	case ErrCodeUnknownDataset:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AsStandardError unwraps err into a *StandardError when possible.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUnresolvedEntityError reports a state/crop mention that matched nothing
// above threshold. It carries the attempted value and the known alternatives.
func NewUnresolvedEntityError(kind, attempted string, alternatives []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnresolvedEntity,
		Message:   fmt.Sprintf("Could not find %s matching '%s'", kind, attempted),
		Details:   fmt.Sprintf("Available %ss: %s", kind, strings.Join(alternatives, ", ")),
		Retryable: false,
		Metadata: map[string]interface{}{
			"kind":         kind,
			"attempted":    attempted,
			"alternatives": alternatives,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyResultError reports that entities resolved but the filtered subset
// holds zero rows. Details name the missing slice.
func NewEmptyResultError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyResult,
		Message:   "No data found for the requested query",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedQuestionError reports a question the interpreter could not classify.
func NewMalformedQuestionError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedQuestion,
		Message:   "Could not understand the question",
		Details:   "Try rephrasing, e.g. 'Compare the average annual rainfall in <state> and <state> for the last 5 years'",
		Retryable: false,
		Metadata:  map[string]interface{}{"question": raw},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownDatasetError creates a non-retryable configuration error.
func NewUnknownDatasetError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownDataset,
		Message:   fmt.Sprintf("Unknown dataset '%s'", name),
		Details:   "Check configs/config.yaml",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetUnavailableError creates a retryable load error.
func NewDatasetUnavailableError(name string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetUnavailable,
		Message:   fmt.Sprintf("Dataset '%s' could not be loaded", name),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteFetchFailedError creates a retryable remote API error.
func NewRemoteFetchFailedError(resourceID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteFetchFailed,
		Message:   "Remote dataset fetch failed",
		Details:   fmt.Sprintf("resource_id: %s: %v", resourceID, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaValidationFailedError creates a non-retryable validation error.
func NewSchemaValidationFailedError(dataset, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidationFailed,
		Message:   fmt.Sprintf("Fetched records for '%s' failed schema validation", dataset),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeClassification  = "CLASSIFICATION_REJECTED"
	CodeImageResolution = "IMAGE_RESOLUTION_ERROR"
	CodeGeneration      = "GENERATION_ERROR"
	CodeMalformed       = "MALFORMED_PERSONA"
	CodeCache           = "CACHE_ERROR"
	CodeAPI             = "API_ERROR"
)

type PipelineError struct {
	Message    string
	Suggestion string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

// ValidationError covers bad input shape, length violations and duplicates.
// Never retried: the same input always fails the same way.
type ValidationError struct {
	*PipelineError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// Unwrap exposes the embedded base so errors.As can reach *PipelineError.
// The promoted method would skip it and return the cause directly.
func (e *ValidationError) Unwrap() error { return e.PipelineError }

// NotFoundError means no evidence page could be located for the name.
type NotFoundError struct {
	*PipelineError
	Name string
}

func NewNotFoundError(message, suggestion, name string) *NotFoundError {
	return &NotFoundError{
		PipelineError: &PipelineError{
			Message:    message,
			Suggestion: suggestion,
			Code:       CodeNotFound,
			StatusCode: 404,
			Context:    map[string]any{"name": name},
		},
		Name: name,
	}
}

func (e *NotFoundError) Unwrap() error { return e.PipelineError }

// ClassificationRejection means a page exists but failed the person/character
// or notability gates. Gate identifies which check terminated the pipeline.
type ClassificationRejection struct {
	*PipelineError
	Gate string
}

func NewClassificationRejection(message, suggestion, gate string) *ClassificationRejection {
	return &ClassificationRejection{
		PipelineError: &PipelineError{
			Message:    message,
			Suggestion: suggestion,
			Code:       CodeClassification,
			StatusCode: 400,
			Context:    map[string]any{"gate": gate},
		},
		Gate: gate,
	}
}

func (e *ClassificationRejection) Unwrap() error { return e.PipelineError }

// ImageResolutionError is non-fatal: the pipeline logs it and proceeds with
// no portrait.
type ImageResolutionError struct {
	*PipelineError
	Title string
}

func NewImageResolutionError(message, title string, cause error) *ImageResolutionError {
	return &ImageResolutionError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeImageResolution,
			StatusCode: 500,
			Context:    map[string]any{"title": title},
			Cause:      cause,
		},
		Title: title,
	}
}

func (e *ImageResolutionError) Unwrap() error { return e.PipelineError }

// GenerationError means the text-generation capability was unreachable, timed
// out or returned empty content. Distinguished from MalformedPersonaError so
// callers can offer a retry.
type GenerationError struct {
	*PipelineError
	Provider string
}

func NewGenerationError(message, provider string, cause error) *GenerationError {
	return &GenerationError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeGeneration,
			StatusCode: 500,
			Context:    map[string]any{"provider": provider},
			Cause:      cause,
		},
		Provider: provider,
	}
}

func (e *GenerationError) Unwrap() error { return e.PipelineError }

// MalformedPersonaError means generation succeeded but the output failed
// schema or required-field validation.
type MalformedPersonaError struct {
	*PipelineError
	Missing []string
}

func NewMalformedPersonaError(message string, missing []string, cause error) *MalformedPersonaError {
	return &MalformedPersonaError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeMalformed,
			StatusCode: 500,
			Context:    map[string]any{"missing": missing},
			Cause:      cause,
		},
		Missing: missing,
	}
}

func (e *MalformedPersonaError) Unwrap() error { return e.PipelineError }

type CacheError struct {
	*PipelineError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

func (e *CacheError) Unwrap() error { return e.PipelineError }

type APIError struct {
	*PipelineError
}

func (e *APIError) Unwrap() error { return e.PipelineError }

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeAPI,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// StatusCode maps any error to an HTTP status. Untagged errors are 500.
func StatusCode(err error) int {
	var pe *PipelineError
	if errors.As(err, &pe) && pe.StatusCode != 0 {
		return pe.StatusCode
	}
	return 500
}

// Suggestion extracts the user-facing suggestion string, if any.
func Suggestion(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Suggestion
	}
	return ""
}

// Code extracts the error code, or empty for untagged errors.
func Code(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

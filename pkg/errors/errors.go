package errors

import (
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeEmptyInput indicates the client uploaded no bytes
	ErrorTypeEmptyInput ErrorType = "EMPTY_INPUT"

	// ErrorTypeInvalidImage indicates the classifier rejected the uploaded bytes
	ErrorTypeInvalidImage ErrorType = "INVALID_IMAGE"

	// ErrorTypeEnrichment indicates candidate enrichment failed as a whole
	ErrorTypeEnrichment ErrorType = "ENRICHMENT_FAILED"

	// ErrorTypePersistence indicates the record store was unavailable
	ErrorTypePersistence ErrorType = "PERSISTENCE_FAILED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewEmptyInputError creates an error for an empty upload
func NewEmptyInputError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeEmptyInput,
		Message: message,
	}
}

// NewInvalidImageError creates an error for bytes the classifier rejected
func NewInvalidImageError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidImage,
		Message: message,
		Err:     err,
	}
}

// NewEnrichmentError creates an error for a failed enrichment pass
func NewEnrichmentError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeEnrichment,
		Message: message,
		Err:     err,
	}
}

// NewPersistenceError creates an error for a failed diagnosis insert
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePersistence,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

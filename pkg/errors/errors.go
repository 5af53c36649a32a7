// Package errors defines the application error taxonomy and its HTTP mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base interface for all application errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// ValidationError represents invalid user input (blank identifiers etc.)
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string    { return "VALIDATION_ERROR" }

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateKeyError represents an entity key collision
type DuplicateKeyError struct {
	Resource string
	Key      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Resource, e.Key)
}

func (e *DuplicateKeyError) HTTPStatus() int { return http.StatusConflict }
func (e *DuplicateKeyError) Code() string    { return "DUPLICATE_KEY" }

// NewDuplicateKeyError creates a new DuplicateKeyError
func NewDuplicateKeyError(resource, key string) *DuplicateKeyError {
	return &DuplicateKeyError{Resource: resource, Key: key}
}

// NotFoundError represents a resource that was not found
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s '%s' not found", e.Resource, e.Key)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string    { return "NOT_FOUND" }

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// InvalidDocumentError represents a replacement payload that is not an
// object containing a definitions mapping
type InvalidDocumentError struct {
	Cause error
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid schema document: %v", e.Cause)
}

func (e *InvalidDocumentError) HTTPStatus() int { return http.StatusBadRequest }
func (e *InvalidDocumentError) Code() string    { return "INVALID_DOCUMENT" }
func (e *InvalidDocumentError) Unwrap() error   { return e.Cause }

// NewInvalidDocumentError creates a new InvalidDocumentError
func NewInvalidDocumentError(cause error) *InvalidDocumentError {
	return &InvalidDocumentError{Cause: cause}
}

// ImportError represents a malformed import payload
type ImportError struct {
	Cause error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed: %v", e.Cause)
}

func (e *ImportError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ImportError) Code() string    { return "IMPORT_ERROR" }
func (e *ImportError) Unwrap() error   { return e.Cause }

// NewImportError creates a new ImportError
func NewImportError(cause error) *ImportError {
	return &ImportError{Cause: cause}
}

// MetaSchemaError aggregates draft-07 meta-validation findings. It is
// informational: the HTTP layer never returns it, but the CLI uses it for a
// non-zero exit.
type MetaSchemaError struct {
	Findings []string
}

func (e *MetaSchemaError) Error() string {
	return fmt.Sprintf("document failed draft-07 meta-validation (%d findings)", len(e.Findings))
}

func (e *MetaSchemaError) HTTPStatus() int { return http.StatusUnprocessableEntity }
func (e *MetaSchemaError) Code() string    { return "META_SCHEMA_INVALID" }

// NewMetaSchemaError creates a new MetaSchemaError
func NewMetaSchemaError(findings []string) *MetaSchemaError {
	return &MetaSchemaError{Findings: findings}
}

// ServiceError represents a failed call to an external collaborator
// (suggestion service upstream)
type ServiceError struct {
	Service string
	Cause   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Cause)
}

func (e *ServiceError) HTTPStatus() int { return http.StatusBadGateway }
func (e *ServiceError) Code() string    { return "SERVICE_UNAVAILABLE" }
func (e *ServiceError) Unwrap() error   { return e.Cause }

// NewServiceError creates a new ServiceError
func NewServiceError(service string, cause error) *ServiceError {
	return &ServiceError{Service: service, Cause: cause}
}

// InternalError represents unexpected server errors
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }
func (e *InternalError) Code() string    { return "INTERNAL_ERROR" }
func (e *InternalError) Unwrap() error   { return e.Cause }

// NewInternalError creates a new InternalError
func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

// Helper functions for error checking

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// IsDuplicateKey checks if an error is a DuplicateKeyError
func IsDuplicateKey(err error) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsImport checks if an error is an ImportError
func IsImport(err error) bool {
	var imp *ImportError
	return errors.As(err, &imp)
}

// IsInvalidDocument checks if an error is an InvalidDocumentError
func IsInvalidDocument(err error) bool {
	var inv *InvalidDocumentError
	return errors.As(err, &inv)
}

// IsService checks if an error is a ServiceError
func IsService(err error) bool {
	var svc *ServiceError
	return errors.As(err, &svc)
}

// GetHTTPStatus returns the HTTP status code for an error
// Returns 500 if the error doesn't implement AppError
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
// Returns "UNKNOWN_ERROR" if the error doesn't implement AppError
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	return ErrorResponse{
		Code:    GetErrorCode(err),
		Message: err.Error(),
	}
}

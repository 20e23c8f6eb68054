package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeCollaborator  = "COLLABORATOR_UNAVAILABLE"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuestion     = NewDomainError(ErrCodeValidation, "question must not be empty")
	ErrEmptySearchTerm   = NewDomainError(ErrCodeValidation, "search term must not be empty")
	ErrInvalidMaxResults = NewDomainError(ErrCodeValidation, "max_results must be a positive integer")
)

// Not found errors
var (
	ErrArticleNotFound = NewDomainError(ErrCodeNotFound, "article not found")
)

// Collaborator errors. Each one names the external dependency that failed
// so callers can report which side of the pipeline is down.
var (
	ErrFetchUnavailable      = NewDomainError(ErrCodeCollaborator, "bibliographic source unavailable")
	ErrEmbeddingUnavailable  = NewDomainError(ErrCodeCollaborator, "embedding model unavailable")
	ErrIndexUnavailable      = NewDomainError(ErrCodeCollaborator, "vector index unavailable")
	ErrMetadataUnavailable   = NewDomainError(ErrCodeCollaborator, "metadata store unavailable")
	ErrGenerationUnavailable = NewDomainError(ErrCodeCollaborator, "generation service unavailable")
)

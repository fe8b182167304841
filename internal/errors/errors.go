package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrCollectionNotFound is returned when a collection is not loaded
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionAlreadyExists is returned when trying to load a collection under a name already in use
	ErrCollectionAlreadyExists = errors.New("collection already exists")

	// ErrDocumentNotFound is returned when a document is not in the catalog
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidIndex is returned when an inverted index fails construction-time validation
	ErrInvalidIndex = errors.New("invalid inverted index")

	// ErrInvalidCatalog is returned when a metadata catalog fails construction-time validation
	ErrInvalidCatalog = errors.New("invalid metadata catalog")

	// ErrJobNotFound is returned when a job ID is unknown or was cleaned up
	ErrJobNotFound = errors.New("job not found")
)

// CollectionNotFoundError represents a collection not found error with context
type CollectionNotFoundError struct {
	Name string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection named '%s' not found", e.Name)
}

func (e *CollectionNotFoundError) Is(target error) bool {
	return target == ErrCollectionNotFound
}

// NewCollectionNotFoundError creates a new CollectionNotFoundError
func NewCollectionNotFoundError(name string) *CollectionNotFoundError {
	return &CollectionNotFoundError{Name: name}
}

// CollectionAlreadyExistsError represents a collection already exists error with context
type CollectionAlreadyExistsError struct {
	Name string
}

func (e *CollectionAlreadyExistsError) Error() string {
	return fmt.Sprintf("collection named '%s' already exists", e.Name)
}

func (e *CollectionAlreadyExistsError) Is(target error) bool {
	return target == ErrCollectionAlreadyExists
}

// NewCollectionAlreadyExistsError creates a new CollectionAlreadyExistsError
func NewCollectionAlreadyExistsError(name string) *CollectionAlreadyExistsError {
	return &CollectionAlreadyExistsError{Name: name}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
	Collection string
}

func (e *DocumentNotFoundError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("document with ID '%s' not found in collection '%s'", e.DocumentID, e.Collection)
	}
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string, collection ...string) *DocumentNotFoundError {
	err := &DocumentNotFoundError{DocumentID: documentID}
	if len(collection) > 0 {
		err.Collection = collection[0]
	}
	return err
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidIndexError reports a malformed posting in an externally supplied inverted index
type InvalidIndexError struct {
	Term       string
	DocumentID string
	Reason     string
}

func (e *InvalidIndexError) Error() string {
	switch {
	case e.Term != "" && e.DocumentID != "":
		return fmt.Sprintf("invalid posting for term '%s' in document '%s': %s", e.Term, e.DocumentID, e.Reason)
	case e.Term != "":
		return fmt.Sprintf("invalid postings for term '%s': %s", e.Term, e.Reason)
	default:
		return fmt.Sprintf("invalid inverted index: %s", e.Reason)
	}
}

func (e *InvalidIndexError) Is(target error) bool {
	return target == ErrInvalidIndex
}

// NewInvalidIndexError creates a new InvalidIndexError
func NewInvalidIndexError(term, documentID, reason string) *InvalidIndexError {
	return &InvalidIndexError{Term: term, DocumentID: documentID, Reason: reason}
}

// InvalidCatalogError reports a malformed metadata catalog entry
type InvalidCatalogError struct {
	Position int
	Reason   string
}

func (e *InvalidCatalogError) Error() string {
	return fmt.Sprintf("invalid catalog entry at position %d: %s", e.Position, e.Reason)
}

func (e *InvalidCatalogError) Is(target error) bool {
	return target == ErrInvalidCatalog
}

// NewInvalidCatalogError creates a new InvalidCatalogError
func NewInvalidCatalogError(position int, reason string) *InvalidCatalogError {
	return &InvalidCatalogError{Position: position, Reason: reason}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

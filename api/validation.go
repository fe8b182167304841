// Package api provides the HTTP surface of the retrieval service.
package api

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/services"
)

// Validation error codes carried in ErrorDetail.Code
const (
	validationCodeRequired = "REQUIRED"
	validationCodeFormat   = "INVALID_FORMAT"
	validationCodeMode     = "INVALID_MODE"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.addCodedError(field, message, validationCodeFormat)
}

func (vr *ValidationResult) addCodedError(field, message, code string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateCollectionName validates a collection name parameter
func ValidateCollectionName(name string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if name == "" {
		result.addCodedError("name", "Collection name is required", validationCodeRequired)
		return result
	}

	if strings.TrimSpace(name) != name {
		result.AddError("name", "Collection name cannot have leading or trailing whitespace")
		return result
	}

	if strings.ContainsAny(name, `/\`) {
		result.AddError("name", "Collection name cannot contain path separators")
		return result
	}

	if !config.IsSafeCollectionName(name) {
		result.AddError("name", "Collection name cannot be '.' or '..'")
	}

	return result
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(documentID) == "" {
		result.addCodedError("documentId", "Document ID is required", validationCodeRequired)
		return result
	}

	return result
}

// ValidateSearchRequest checks the query text and resolves the search mode.
// A blank query is rejected here even though the retrieval core would simply
// return no documents for it.
func ValidateSearchRequest(req *SearchRequest) (services.SearchMode, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(req.Query) == "" {
		result.addCodedError("query", "Query cannot be empty or whitespace-only", validationCodeRequired)
	}

	mode := services.ModeBoolean
	if req.Mode != "" {
		parsed, err := services.ParseSearchMode(req.Mode)
		if err != nil {
			result.addCodedError("mode", "Mode must be 'boolean' or 'vector'", validationCodeMode)
		} else {
			mode = parsed
		}
	}

	return mode, result
}

// ValidateLoadCollectionRequest checks the collection name, source directory and settings.
// The directory must stay inside the source root.
func ValidateLoadCollectionRequest(req *LoadCollectionRequest) *ValidationResult {
	result := ValidateCollectionName(req.Name)

	switch {
	case strings.TrimSpace(req.Dir) == "":
		result.addCodedError("dir", "Source directory is required", validationCodeRequired)
	case !filepath.IsLocal(req.Dir):
		result.AddError("dir", "Source directory must be a relative path inside the source root")
	}

	if req.CollectionSize < 0 {
		result.AddError("collection_size", "Collection size must not be negative")
	}
	for _, w := range req.StopWords {
		if strings.TrimSpace(w) == "" {
			result.AddError("stop_words", "Stop-word cannot be empty or whitespace-only")
			break
		}
	}
	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

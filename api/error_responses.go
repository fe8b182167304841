package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrorCodeCollectionNotFound  ErrorCode = "COLLECTION_NOT_FOUND"
	ErrorCodeDocumentNotFound    ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeInvalidJSON         ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery        ErrorCode = "INVALID_QUERY"
	ErrorCodePersistenceDisabled ErrorCode = "PERSISTENCE_DISABLED"
	ErrorCodeCollectionExists    ErrorCode = "COLLECTION_EXISTS"
	ErrorCodeLoadingDisabled     ErrorCode = "LOADING_DISABLED"
	ErrorCodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrorCodeSearchFailed      ErrorCode = "SEARCH_FAILED"
	ErrorCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrorCodeJobRejected       ErrorCode = "JOB_REJECTED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	// Add request ID if available
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    err.Code,
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendCollectionNotFoundError sends a standardized collection not found error
func SendCollectionNotFoundError(c *gin.Context, name string) {
	SendError(c, http.StatusNotFound, ErrorCodeCollectionNotFound,
		"Collection '"+name+"' not found")
}

// SendDocumentNotFoundError sends a standardized document not found error
func SendDocumentNotFoundError(c *gin.Context, documentID, collection string) {
	message := "Document '" + documentID + "' not found"
	if collection != "" {
		message += " in collection '" + collection + "'"
	}
	SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound, message)
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendSearchError sends a standardized search error
func SendSearchError(c *gin.Context, collection string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed,
		"Search failed on collection '"+collection+"': "+err.Error())
}

// SendPersistenceError sends a standardized snapshot failure error
func SendPersistenceError(c *gin.Context, collection string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed,
		"Failed to persist collection '"+collection+"': "+err.Error())
}

// SendJobNotFoundError sends a standardized job not found error
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound,
		"Job '"+jobID+"' not found")
}

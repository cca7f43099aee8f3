// Package errors provides standardized error handling for the conversation engine.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidProductID       ErrorCode = "INVALID_PRODUCT_ID"
	ErrCodeAnalysisFailed         ErrorCode = "ANALYSIS_FAILED"
	ErrCodeNoReviewsAvailable     ErrorCode = "NO_REVIEWS_AVAILABLE"
	ErrCodeNotInDataset           ErrorCode = "NOT_IN_DATASET"
	ErrCodeUnexpectedSessionState ErrorCode = "UNEXPECTED_SESSION_STATE"
	ErrCodeArtifactInvalid        ErrorCode = "ARTIFACT_INVALID"
	ErrCodeTransportSendFailed    ErrorCode = "TRANSPORT_SEND_FAILED"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidProductIDError creates a non-retryable identifier error.
func NewInvalidProductIDError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidProductID,
		Message:   "No valid product identifier in message",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisFailedError creates a retryable analysis invocation error.
// Diagnostic holds whatever the external tool wrote to stderr.
func NewAnalysisFailedError(productID, diagnostic string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "Analysis tool invocation failed",
		Details:   diagnostic,
		Retryable: true,
		Metadata:  map[string]interface{}{"productId": productID},
		Timestamp: time.Now().UTC(),
	}
}

// NewNoReviewsAvailableError creates a non-retryable "nothing to show" error.
func NewNoReviewsAvailableError(productID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoReviewsAvailable,
		Message:   "Analysis produced no usable reviews",
		Details:   fmt.Sprintf("productId: %s", productID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotInDatasetError creates a non-retryable unknown-product error.
func NewNotInDatasetError(productID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotInDataset,
		Message:   "Product is not in the review dataset",
		Details:   fmt.Sprintf("productId: %s", productID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedSessionStateError creates the self-healing session error.
func NewUnexpectedSessionStateError(userID, state string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedSessionState,
		Message:   "Session was in an unrecognized state",
		Details:   fmt.Sprintf("userId: %s, state: %s", userID, state),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactInvalidError creates a non-retryable artifact schema error.
func NewArtifactInvalidError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactInvalid,
		Message:   "Analysis artifact failed schema validation",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportSendFailedError creates a retryable outbound delivery error.
func NewTransportSendFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportSendFailed,
		Message:   "Failed to deliver message to chat gateway",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"userId": userID},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeAnalysisFailed, ErrCodeTransportSendFailed:
		return 2
	default:
		return 0 // Business outcomes: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// CodeOf extracts the ErrorCode from an error, or empty when it is not
// a StandardError.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return ""
}

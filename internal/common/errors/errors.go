// Package errors provides standardized error codes shared by the HTTP
// handlers and the workflow workers.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidMessageFormat ErrorCode = "INVALID_MESSAGE_FORMAT"
	ErrCodeParseError           ErrorCode = "PARSE_ERROR"

	ErrCodeInventoryQueryFailed ErrorCode = "INVENTORY_QUERY_FAILED"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"
	ErrCodeSearchIndexFailed    ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeReplyBuildFailed       ErrorCode = "REPLY_BUILD_FAILED"
	ErrCodeReplyValidationFailed  ErrorCode = "REPLY_VALIDATION_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeLeadInsertFailed       ErrorCode = "LEAD_INSERT_FAILED"
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

// New creates a StandardError with the current timestamp.
func New(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryable(code),
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether a worker should ask the engine to retry
// a job that failed with this code.
func IsRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeQueryTimeout, ErrCodeInventoryQueryFailed,
		ErrCodeSearchIndexFailed, ErrCodeNotificationSendFailed:
		return true
	}
	return false
}

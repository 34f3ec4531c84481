// Package errors provides standardized error handling across the dining
// concierge functions.
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
	ErrCodeEngineUnavailable    ErrorCode = "ENGINE_UNAVAILABLE"
	ErrCodeMalformedChatRequest ErrorCode = "MALFORMED_CHAT_REQUEST"

	ErrCodeMalformedQueueMessage ErrorCode = "MALFORMED_QUEUE_MESSAGE"
	ErrCodeQueuePublishFailed    ErrorCode = "QUEUE_PUBLISH_FAILED"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeRecordFetchFailed     ErrorCode = "RECORD_FETCH_FAILED"
	ErrCodePreferenceStoreFailed ErrorCode = "PREFERENCE_STORE_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
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

// ==========================
// 2. Error Constructors
// ==========================

// NewEngineUnavailableError creates a retryable conversational-engine error.
func NewEngineUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEngineUnavailable,
		Message:   "Conversational engine call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedChatRequestError creates a non-retryable request envelope error.
func NewMalformedChatRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedChatRequest,
		Message:   "Chat request envelope failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedQueueMessageError creates a non-retryable queue message error.
// Redelivering a body that cannot be parsed never helps.
func NewMalformedQueueMessageError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedQueueMessage,
		Message:   "Queue message body failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueuePublishFailedError creates a retryable queue publish error.
func NewQueuePublishFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueuePublishFailed,
		Message:   "Failed to publish fulfillment request to queue",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search index query error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Search index query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Search index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordFetchFailedError creates a retryable record store read error.
func NewRecordFetchFailedError(recordID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordFetchFailed,
		Message:   "Record store read error",
		Details:   fmt.Sprintf("recordId: %s, error: %s", recordID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPreferenceStoreFailedError creates a retryable preference write error.
func NewPreferenceStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePreferenceStoreFailed,
		Message:   "Preference store write error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Redelivery Budgets
// ==========================

// GetRetryCount returns the recommended redelivery budget per error code.
// The queue's redrive policy owns the actual retry loop; this table only
// documents how many redeliveries are worth asking for.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEngineUnavailable,
		ErrCodeQueuePublishFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeRecordFetchFailed,
		ErrCodePreferenceStoreFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Validation errors: no retry
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeConflict   ErrorCode = "CONFLICT"
	ErrCodeUpstream   ErrorCode = "UPSTREAM_ERROR"

	ErrCodeHistoryStoreFailed     ErrorCode = "HISTORY_STORE_FAILED"
	ErrCodeAuditWriteFailed       ErrorCode = "AUDIT_WRITE_FAILED"
	ErrCodeParseError             ErrorCode = "PARSE_ERROR"
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is; a StandardError matches when the codes are equal.
var (
	ErrValidation = &StandardError{Code: ErrCodeValidation}
	ErrNotFound   = &StandardError{Code: ErrCodeNotFound}
	ErrConflict   = &StandardError{Code: ErrCodeConflict}
	ErrUpstream   = &StandardError{Code: ErrCodeUpstream}
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns e after setting key on its metadata map.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewConflictError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConflict,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError wraps a backend failure. If err already is an upstream
// StandardError it is returned as is.
func NewUpstreamError(operation string, err error) *StandardError {
	var existing *StandardError
	if stderrors.As(err, &existing) && existing.Code == ErrCodeUpstream {
		return existing
	}
	return &StandardError{
		Code:      ErrCodeUpstream,
		Message:   fmt.Sprintf("backend call '%s' failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewHistoryStoreError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryStoreFailed,
		Message:   fmt.Sprintf("status history %s failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewAuditWriteError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditWriteFailed,
		Message:   "status audit insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "job variables could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewSchemaValidationError(violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidationFailed,
		Message:   "job variables do not match the input schema",
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// Code reports the ErrorCode carried by err, or ErrCodeInternal.
func Code(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func IsValidation(err error) bool { return stderrors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return stderrors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return stderrors.Is(err, ErrConflict) }
func IsUpstream(err error) bool   { return stderrors.Is(err, ErrUpstream) }

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidation:             "APPLICATION_VALIDATION_FAILED",
	ErrCodeNotFound:               "APPLICATION_NOT_FOUND",
	ErrCodeConflict:               "NOTHING_TO_UNDO",
	ErrCodeUpstream:               "BACKEND_UNAVAILABLE",
	ErrCodeHistoryStoreFailed:     "HISTORY_STORE_FAILED",
	ErrCodeAuditWriteFailed:       "AUDIT_WRITE_FAILED",
	ErrCodeParseError:             "INVALID_JOB_VARIABLES",
	ErrCodeSchemaValidationFailed: "INVALID_JOB_VARIABLES",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeUpstream,
		ErrCodeHistoryStoreFailed:
		return 3

	case ErrCodeAuditWriteFailed:
		return 1

	default:
		return 0 // business errors
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidation, ErrCodeParseError, ErrCodeSchemaValidationFailed:
		return "VALIDATION"
	case ErrCodeNotFound, ErrCodeConflict:
		return "STATE"
	case ErrCodeUpstream:
		return "BACKEND"
	case ErrCodeHistoryStoreFailed, ErrCodeAuditWriteFailed:
		return "STORAGE"
	default:
		return "OTHER"
	}
}

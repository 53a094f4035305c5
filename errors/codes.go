package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeNotFound indicates a referenced file or entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeLineageUnreadable indicates the lineage description could not be read.
	ErrCodeLineageUnreadable ErrorCode = "LINEAGE_UNREADABLE"
)

// Execution errors
const (
	// ErrCodeHandlerFailed indicates a registered FM handler failed during a run.
	ErrCodeHandlerFailed ErrorCode = "HANDLER_FAILED"
	// ErrCodeExternalService indicates an error from an external process or system.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeCanceled indicates the run was canceled before completion.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Handler failures are not retryable; a failed run restarts from the lineage.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeExternalService:   true,
	ErrCodeLineageUnreadable: false,
	ErrCodeHandlerFailed:     false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

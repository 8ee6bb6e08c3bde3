package apperrors

// ErrorCode identifies a failure class independent of its domain.
type ErrorCode string

const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Auth
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Ledger. NotConnected fails fast and is never retried.
	// ConnectionFailed is surfaced only after internal retries are
	// exhausted. TransactionFailed is terminal. ConfirmationTimeout
	// leaves the transaction pending for later re-polling.
	CodeNotConnected        ErrorCode = "NOT_CONNECTED"
	CodeConnectionFailed    ErrorCode = "CONNECTION_FAILED"
	CodeTransactionFailed   ErrorCode = "TRANSACTION_FAILED"
	CodeConfirmationTimeout ErrorCode = "CONFIRMATION_TIMEOUT"

	// Content integrity
	CodeHashMismatch ErrorCode = "HASH_MISMATCH"
)

package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for domain errors of the review
and reputation engine.
*/

// =========================================================================
// Factory functions (wrap repository / connector errors)
// =========================================================================

// ErrNotFound converts a repository miss into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation is the factory for operations not allowed in the
// current state.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus is the factory for invalid status transitions.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Ledger errors
// =========================================================================

// ErrNotConnected - a transaction operation was attempted before a
// successful Connect. Fails fast, never retried.
var ErrNotConnected = New(
	CodeNotConnected,
	"ledger",
	"Ledger connection has not been established",
	http.StatusServiceUnavailable,
)

// ErrConnectionFailed wraps a handshake failure after retries were
// exhausted.
func ErrConnectionFailed(err error, attempts int) *AppError {
	return Wrap(err, CodeConnectionFailed, "ledger",
		"Failed to connect to the ledger", http.StatusBadGateway).
		WithDetails(map[string]int{"attempts": attempts})
}

// ErrTransactionFailed - the ledger reported the transaction as failed.
// Terminal: the caller must submit a new transaction.
func ErrTransactionFailed(hash string) *AppError {
	return New(CodeTransactionFailed, "ledger",
		"Ledger transaction failed", http.StatusBadGateway).
		WithDetails(map[string]string{"tx_hash": hash})
}

// ErrConfirmationTimeout - the confirmation deadline elapsed. The
// transaction stays pending and may be re-polled later.
func ErrConfirmationTimeout(hash string, confirmations, required int) *AppError {
	return New(CodeConfirmationTimeout, "ledger",
		"Transaction confirmation timed out, status can be re-polled later", http.StatusGatewayTimeout).
		WithDetails(map[string]interface{}{
			"tx_hash":       hash,
			"confirmations": confirmations,
			"required":      required,
		})
}

// =========================================================================
// Content integrity
// =========================================================================

// ErrHashMismatch - stored content no longer matches its recorded hash.
// This is a tamper signal and is never silently repaired.
func ErrHashMismatch(reviewID string) *AppError {
	return New(CodeHashMismatch, "content",
		"Review content does not match its recorded hash", http.StatusConflict).
		WithDetails(map[string]string{"review_id": reviewID})
}

// =========================================================================
// Review / dispute business rules
// =========================================================================

// ErrSelfReview - a reviewer attempted to review themselves.
var ErrSelfReview = New(
	CodeValidationFailed,
	"review",
	"You cannot review yourself",
	http.StatusBadRequest,
)

// ErrReviewImmutable - verified reviews are append-only.
var ErrReviewImmutable = New(
	CodeInvalidOperation,
	"review",
	"Verified reviews cannot be modified",
	http.StatusConflict,
)

// ErrDisputeClosed - the referenced review already has a resolved or
// rejected dispute.
var ErrDisputeClosed = New(
	CodeConflict,
	"dispute",
	"Review already has a closed dispute",
	http.StatusConflict,
)

// ErrDisputeNotReopenable - disputes never reopen after a terminal
// status.
var ErrDisputeNotReopenable = New(
	CodeInvalidStatus,
	"dispute",
	"Dispute status can only advance forward",
	http.StatusConflict,
)

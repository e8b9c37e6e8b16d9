package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service error so the transport layer can map it to a
// status code without inspecting messages.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
	KindUnexpected
)

// Conflict codes. Clients use these to show an accurate message, in
// particular to distinguish "already processed" from "not found".
const (
	CodeAlreadyProcessed      = "already_processed"
	CodeActiveTransactionLock = "active_transaction_lock"
	CodeInsufficientStock     = "insufficient_stock"
	CodeAlreadyFlagged        = "already_flagged"
	CodeHasActiveTransactions = "has_active_transactions"
	CodeOpenRequestExists     = "open_request_exists"
	CodeListingUnavailable    = "listing_unavailable"
	CodeNotDraft              = "not_draft"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "internal error", Err: err}
}

// KindOf returns the kind of err, or KindUnexpected for anything that is not
// a service error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnexpected
}

// CodeOf returns the conflict code of err, if any.
func CodeOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

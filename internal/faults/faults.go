package faults

import "errors"

// Code identifies a moderation fault. Caller-correctable codes are surfaced
// as-is and never retried by the server; infrastructure codes exist only to
// give callers retry guidance.
type Code string

const (
	CodeRequestNull    Code = "REQUEST_NULL"
	CodeInvalidReason  Code = "INVALID_REASON"
	CodeCommentTooLong Code = "COMMENT_TOO_LONG"
	CodeInvalidTarget  Code = "INVALID_TARGET"
	CodeSelfReport     Code = "SELF_REPORT"
	CodeTokenInvalid   Code = "TOKEN_INVALID"

	CodeTimeout       Code = "TIMEOUT"
	CodeCommunication Code = "COMMUNICATION"
	CodeConfiguration Code = "CONFIGURATION"
	CodeDbError       Code = "DB_ERROR"
	CodeUnexpected    Code = "UNEXPECTED"
)

// Fault is a typed domain error carrying a code and a client-facing message
// key. Raw infrastructure errors never cross the API boundary.
type Fault struct {
	Code       Code
	MessageKey string
}

func (f *Fault) Error() string {
	return string(f.Code) + ": " + f.MessageKey
}

func New(code Code, messageKey string) *Fault {
	return &Fault{Code: code, MessageKey: messageKey}
}

var (
	ErrRequestNull    = New(CodeRequestNull, "moderation.request_null")
	ErrInvalidReason  = New(CodeInvalidReason, "moderation.invalid_reason")
	ErrCommentTooLong = New(CodeCommentTooLong, "moderation.comment_too_long")
	ErrInvalidTarget  = New(CodeInvalidTarget, "moderation.invalid_target")
	ErrSelfReport     = New(CodeSelfReport, "moderation.self_report")
	ErrTokenInvalid   = New(CodeTokenInvalid, "auth.token_invalid")
)

// IsFault reports whether err is (or wraps) a typed Fault and returns it.
func IsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// FailureClass is the abstract failure classification supplied by the
// persistence adapter. It keeps infrastructure-specific error types out of
// the coordinator: the adapter decides the class, this package decides the
// fault code.
type FailureClass int

const (
	FailureTimeout FailureClass = iota
	FailureConnectivity
	FailureConfiguration
	FailureDatabase
	FailureOther
)

// StoreError wraps an infrastructure error together with its failure class.
type StoreError struct {
	Class FailureClass
	Err   error
}

func (e *StoreError) Error() string {
	return "store failure: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// FromFailure is the closed mapping from failure class to fault code.
func FromFailure(class FailureClass) *Fault {
	switch class {
	case FailureTimeout:
		return New(CodeTimeout, "infra.timeout")
	case FailureConnectivity:
		return New(CodeCommunication, "infra.communication")
	case FailureConfiguration:
		return New(CodeConfiguration, "infra.configuration")
	case FailureDatabase:
		return New(CodeDbError, "infra.db_error")
	default:
		return New(CodeUnexpected, "infra.unexpected")
	}
}

// Reclassify turns an error raised by the persistence layer into a typed
// Fault. Already-typed domain faults pass through unchanged; classified
// store errors map through FromFailure; anything else is Unexpected.
func Reclassify(err error) *Fault {
	if f, ok := IsFault(err); ok {
		return f
	}
	var se *StoreError
	if errors.As(err, &se) {
		return FromFailure(se.Class)
	}
	return New(CodeUnexpected, "infra.unexpected")
}

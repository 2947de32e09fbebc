package practicum

import (
	"errors"
	"fmt"
)

// Kind classifies a poll-pipeline failure. Every kind is recoverable: the
// poller reports it and retries on the next tick.
type Kind int

const (
	// KindTransport covers network and connection failures.
	KindTransport Kind = iota
	// KindServerStatus covers non-200 responses; Code carries the status.
	KindServerStatus
	// KindValidation covers responses whose shape breaks the API contract.
	KindValidation
	// KindParse covers records with missing fields or unknown statuses.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServerStatus:
		return "server_status"
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified poll failure.
type Error struct {
	Kind Kind
	Code int // HTTP status, set for KindServerStatus
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// ContractViolation reports whether the failure likely means the upstream
// API contract changed, which deserves a louder log line than a flaky
// network does.
func (e *Error) ContractViolation() bool {
	return e.Kind == KindValidation || e.Kind == KindParse
}

func transportErr(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Msg: msg, Err: err}
}

func serverStatusErr(code int) *Error {
	return &Error{
		Kind: KindServerStatus,
		Code: code,
		Msg:  fmt.Sprintf("endpoint returned status %d", code),
	}
}

func validationErr(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Err: err}
}

func missingFieldErr(field string) *Error {
	return &Error{Kind: KindParse, Msg: fmt.Sprintf("homework record is missing %q", field)}
}

func unknownStatusErr(status string) *Error {
	return &Error{Kind: KindParse, Msg: fmt.Sprintf("unknown review status %q", status)}
}

// Classify folds an arbitrary error into an *Error. Already-classified
// errors pass through unchanged; anything unrecognized counts as a
// transport failure, the only kind that can originate outside this package.
func Classify(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return transportErr("request failed", err)
}

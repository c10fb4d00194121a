package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller-input and ledger failure classes.
// Callers match them with errors.Is.
var (
	// ErrInvalidAmount marks a malformed, negative or over-precision
	// decimal amount string.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownFunction marks an encode attempt against a function
	// the interface does not declare.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrUnexpectedValue marks a non-zero value attached to a call
	// whose mutability forbids one.
	ErrUnexpectedValue = errors.New("unexpected value on non-payable function")

	// ErrLedgerUnavailable marks a network or node failure while
	// talking to the ledger.
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// ErrReverted marks a transaction the ledger executed and rejected.
	ErrReverted = errors.New("transaction reverted")
)

// ArgumentTypeMismatchError names the parameter that failed coercion.
type ArgumentTypeMismatchError struct {
	Function string
	Param    string
	Index    int
	Got      interface{}
	Want     string
}

func (e *ArgumentTypeMismatchError) Error() string {
	return fmt.Sprintf("%s: argument %q (index %d): cannot coerce %T to %s",
		e.Function, e.Param, e.Index, e.Got, e.Want)
}

// SubmissionRejectedError marks a refusal before broadcast: the signer
// declined, the balance was insufficient, or the node was unreachable.
// No transaction handle exists when this is returned.
type SubmissionRejectedError struct {
	Cause error
}

func (e *SubmissionRejectedError) Error() string {
	return fmt.Sprintf("submission rejected: %v", e.Cause)
}

func (e *SubmissionRejectedError) Unwrap() error { return e.Cause }

// DecodeError marks a read result whose shape does not match the
// function's declared outputs.
type DecodeError struct {
	Function string
	Cause    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s result: %v", e.Function, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

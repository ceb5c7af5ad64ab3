package rx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is thrown by ThrowIfEmpty when no error factory is given.
var ErrEmpty = errors.New("rx: source completed without values")

// DisposalError aggregates every error raised during one disposal cascade.
type DisposalError struct {
	Errors []error
}

func (e *DisposalError) Error() string {
	return joinMessage(len(e.Errors), "caught while disposing", e.Errors)
}

func (e *DisposalError) Unwrap() []error {
	return e.Errors
}

// DistributionError aggregates every error raised while a Subject
// distributed one or more events.
type DistributionError struct {
	Errors []error
}

func (e *DistributionError) Error() string {
	return joinMessage(len(e.Errors), "caught while distributing an event through a subject", e.Errors)
}

func (e *DistributionError) Unwrap() []error {
	return e.Errors
}

func joinMessage(n int, what string, errs []error) string {
	var b strings.Builder
	if n == 1 {
		fmt.Fprintf(&b, "1 error was %s", what)
	} else {
		fmt.Fprintf(&b, "%d errors were %s", n, what)
	}
	for i, err := range errs {
		fmt.Fprintf(&b, "\n  [%d] %v", i+1, err)
	}
	return b.String()
}

// appendFlat appends err to errs, expanding nested DisposalErrors so a
// cascade reports a flat list.
func appendFlat(errs []error, err error) []error {
	if de, ok := err.(*DisposalError); ok {
		return append(errs, de.Errors...)
	}
	return append(errs, err)
}

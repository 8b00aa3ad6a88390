package errors

import (
	"fmt"

	"github.com/fatih/color"
	stderrors "github.com/pkg/errors"
)

// SolverError is the error type returned across every internal component
// boundary: term construction, internalization, and theory lowering.
// It carries a Code (spec.md §7's taxonomy) and, for internal bugs, a
// stack trace captured via github.com/pkg/errors.
type SolverError struct {
	Code    Code
	Message string
	cause   error
}

func (e *SolverError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is/errors.As walk through to the wrapped cause.
func (e *SolverError) Unwrap() error { return e.cause }

// New builds a SolverError with the given code and message.
func New(code Code, message string) *SolverError {
	err := &SolverError{Code: code, Message: message}
	if code.IsInternal() {
		err.cause = stderrors.New(message)
	}
	return err
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(code Code, format string, args ...interface{}) *SolverError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and a stack trace (via pkg/errors) to an existing
// cause, used when a theory-solver exception propagates out of check_sat.
func Wrap(code Code, cause error, message string) *SolverError {
	return &SolverError{Code: code, Message: message, cause: stderrors.Wrap(cause, message)}
}

// CodeOf extracts the Code from err if it is (or wraps) a *SolverError,
// returning InternalError otherwise.
func CodeOf(err error) Code {
	var se *SolverError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return InternalError
}

// ReportCLI renders err the way the CLI front end colors success/failure,
// mirroring the teacher main.go's color.Red/color.Green reporting.
func ReportCLI(err error) string {
	if err == nil {
		return color.GreenString("ok")
	}
	code := CodeOf(err)
	if code.IsTrivialResult() {
		return color.YellowString("%s: %s", code, err.Error())
	}
	return color.RedString("%s: %s", code, err.Error())
}

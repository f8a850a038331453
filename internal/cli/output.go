package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/projection"
	"github.com/roach88/pdscatter/internal/source"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // script assertions failed, server stopped on error
	ExitCommandError = 2 // bad flags, unreadable data, missing table
)

// ErrorCode classifies a failure in the JSON error envelope.
type ErrorCode string

const (
	CodeBadInput     ErrorCode = "E001" // flags or selection rejected
	CodeDataError    ErrorCode = "E002" // source files failed to parse or unify
	CodeStoreError   ErrorCode = "E003" // database could not be opened or read
	CodeScriptFailed ErrorCode = "E004" // session script assertions failed
	CodeInternal     ErrorCode = "E999" // anything not raised through fail
)

// ExitError carries the exit code and error class of a failed command.
type ExitError struct {
	Code    int
	Kind    ErrorCode
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError with no underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Kind: CodeBadInput, Message: message}
}

// WrapExitError returns an ExitError around err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Kind: CodeBadInput, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not
// ExitErrors exit with ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON envelope.
// Diagnostics go to ErrWriter so they never mix with a JSON document.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope every command prints in json mode.
type CLIResponse struct {
	Status    string      `json:"status"` // "ok" or "error"
	Data      interface{} `json:"data,omitempty"`
	Error     *CLIError   `json:"error,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
}

// CLIError is the error half of the envelope.
type CLIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success prints data.
func (f *OutputFormatter) Success(data interface{}) error {
	return f.SuccessFor("", data)
}

// SuccessFor prints data tagged with the session that produced it.
func (f *OutputFormatter) SuccessFor(sessionID string, data interface{}) error {
	if f.Format != "json" {
		_, err := fmt.Fprintln(f.Writer, data)
		return err
	}
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data, SessionID: sessionID})
}

// Error prints an error envelope. Text mode shows details only when verbose.
func (f *OutputFormatter) Error(code ErrorCode, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail prints err with its class and whatever location it carries.
func (f *OutputFormatter) Fail(err error) error {
	code := CodeInternal
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Kind
	}
	return f.Error(code, err.Error(), errorDetails(err))
}

// errorDetails pulls the file position, offending field or integrity code
// out of err.
func errorDetails(err error) interface{} {
	var (
		pe  *source.ParseError
		se  *projection.SelectionError
		die *dataset.DataIntegrityError
	)
	switch {
	case errors.As(err, &pe):
		return map[string]interface{}{"file": pe.File, "line": pe.Line, "column": pe.Column}
	case errors.As(err, &se):
		return map[string]interface{}{"field": se.Field}
	case errors.As(err, &die):
		return map[string]interface{}{"integrity": string(die.Code)}
	}
	return nil
}

// VerboseLog prints a diagnostic line when verbose output is on.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

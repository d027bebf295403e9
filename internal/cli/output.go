package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Decoding failure (malformed records, missing base value, ...)
	ExitCommandError = 2 // Command error (bad flags, database not found, unknown path, ...)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

// Response is the JSON envelope of every command's output.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// JSON reports whether the formatter emits JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == FormatJSON
}

// Success writes data. In text mode text is called to render it.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}

	return text(f.Writer)
}

// Error writes err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "error", Error: err.Error()})
	}

	_, werr := fmt.Fprintf(f.Writer, "Error: %v\n", err)

	return werr
}

package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/worklog/internal/logger"
)

var (
	// ErrInvalidArgument marks a malformed query specification
	ErrInvalidArgument = stderrors.New("invalid argument")
	// ErrValidation marks an entry that cannot be persisted as given
	ErrValidation = stderrors.New("validation failed")
	// ErrNotFound marks an operation addressed to an id that no longer exists
	ErrNotFound = stderrors.New("not found")
	// ErrMalformedInput marks an import document that cannot be parsed
	ErrMalformedInput = stderrors.New("malformed input")
)

// IsSoft reports whether err should be surfaced as a notice rather than a failure.
func IsSoft(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1.
// Soft failures are printed as a notice and exit cleanly.
func Fatal(err error) {
	if err == nil {
		return
	}
	if IsSoft(err) {
		logger.Warn("Command had no effect", "error", err)
		fmt.Fprintf(os.Stderr, "Notice: %v\n", err)
		os.Exit(0)
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintf(os.Stderr, "%s\n", Format(err))
	os.Exit(1)
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

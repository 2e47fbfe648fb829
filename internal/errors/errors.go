package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/steplog/internal/logger"
)

// Kind classifies a failure coming out of the step/garden core.
type Kind int

const (
	KindUnknown Kind = iota
	// KindStoreRead is a failed read from the key-value store.
	KindStoreRead
	// KindStoreWrite is a failed write to the key-value store.
	KindStoreWrite
	// KindDecode means stored text could not be parsed into a record.
	KindDecode
	// KindInvalid is a caller-supplied value outside its allowed range.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindStoreRead:
		return "store read"
	case KindStoreWrite:
		return "store write"
	case KindDecode:
		return "decode"
	case KindInvalid:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error carries the kind of failure, the operation and key it happened on, and
// the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Key  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error.
func New(kind Kind, op, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Err: err}
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
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

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

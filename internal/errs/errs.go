// Package errs defines the error kinds surfaced by the checklist engine.
//
// Every kind carries a stable Code so transports (MCP tool results, CLI exit
// messages, logs) can report it without string matching, and each kind
// matches its sentinel through errors.Is.
package errs

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeConfiguration   Code = "CONFIGURATION_ERROR"
	CodeUnknownItem     Code = "UNKNOWN_ITEM"
	CodeInvalidResponse Code = "INVALID_RESPONSE"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Sentinels for errors.Is matching.
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrUnknownItem     = errors.New("unknown item")
	ErrInvalidResponse = errors.New("invalid response")
)

// --- ConfigurationError ---

// ConfigurationError reports a malformed questionnaire definition, threshold
// table or config file. It is fatal at startup.
type ConfigurationError struct {
	Reason string
	Err    error
}

// Configuration builds a ConfigurationError from a formatted reason.
func Configuration(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// WrapConfiguration attaches a reason to an underlying cause.
func WrapConfiguration(err error, reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error        { return e.Err }
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
func (e *ConfigurationError) Code() Code           { return CodeConfiguration }

// --- UnknownItemError ---

// UnknownItemError reports a response written for an item id that the
// questionnaire does not define. It is a caller bug and must not be absorbed.
type UnknownItemError struct {
	ID int
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %d", e.ID)
}

func (e *UnknownItemError) Is(target error) bool { return target == ErrUnknownItem }
func (e *UnknownItemError) Code() Code           { return CodeUnknownItem }

// --- InvalidResponseError ---

// InvalidResponseError reports an attempt to write a value other than
// Compliant or NonCompliant. Unanswered is only ever the implicit default.
type InvalidResponseError struct {
	ID    int
	Value string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response %q for item %d: must be compliant or non_compliant", e.Value, e.ID)
}

func (e *InvalidResponseError) Is(target error) bool { return target == ErrInvalidResponse }
func (e *InvalidResponseError) Code() Code           { return CodeInvalidResponse }

// CodeOf returns the Code of the first coded error in err's chain,
// or CodeInternal when none is found.
func CodeOf(err error) Code {
	var coded interface{ Code() Code }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeInternal
}

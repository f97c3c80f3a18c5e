package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind the machine readable category of ScriptError
type ErrorKind string

const (
	ErrBadRequest         ErrorKind = "BAD_REQUEST"
	ErrArgumentMissing    ErrorKind = "ARGUMENT_MISSING"
	ErrUnprocessable      ErrorKind = "UNPROCESSABLE"
	ErrTransport          ErrorKind = "TRANSPORT_ERROR"
	ErrServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	ErrUnknown            ErrorKind = "UNKNOWN_ERROR"
)

const (
	causeUndefined = "<undefined>"
	causeObject    = "<object>"
)

type (
	// ScriptError the error type used by all impex components
	ScriptError struct {
		Kind    ErrorKind
		Message string

		// Cause could be nil, a string, an error or any other value
		Cause interface{}
	}

	// ErrorReport the structured rendering of ScriptError
	ErrorReport struct {
		Code    ErrorKind   `json:"code"`
		Message string      `json:"message"`
		Origin  interface{} `json:"origin"`
		Details string      `json:"details"`
	}
)

// Kinds returns all recognized error kinds
func Kinds() []ErrorKind {
	return []ErrorKind{
		ErrBadRequest,
		ErrArgumentMissing,
		ErrUnprocessable,
		ErrTransport,
		ErrServiceUnavailable,
		ErrUnknown,
	}
}

func (k ErrorKind) IsValid() bool {
	for _, kind := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// NewError create ScriptError, unrecognized kind falls back to UNKNOWN_ERROR
func NewError(message string, kind ErrorKind, cause interface{}) *ScriptError {
	if !kind.IsValid() {
		kind = ErrUnknown
	}

	return &ScriptError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// IsKind check the err chain contains ScriptError of the kind
func IsKind(err error, kind ErrorKind) bool {
	var se *ScriptError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

func (e *ScriptError) Error() string {
	return e.String()
}

func (e *ScriptError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// CauseAsString renders the cause without leaking structured content into logs
func (e *ScriptError) CauseAsString() string {
	switch c := e.Cause.(type) {
	case nil:
		return causeUndefined
	case string:
		if c == "" {
			return causeUndefined
		}
		return c
	case error:
		return c.Error()
	default:
		return causeObject
	}
}

func (e *ScriptError) HasMessage() bool {
	return strings.TrimSpace(e.Message) != ""
}

func (e *ScriptError) String() string {
	report := fmt.Sprintf("%s (%s)", e.Kind, e.CauseAsString())
	if e.HasMessage() {
		report = fmt.Sprintf("%s: %s", report, e.Message)
	}
	return report
}

func (e *ScriptError) ToJSON() *ErrorReport {
	origin := e.Cause
	if err, ok := origin.(error); ok {
		origin = err.Error()
	}

	return &ErrorReport{
		Code:    e.Kind,
		Message: e.Message,
		Origin:  origin,
		Details: e.String(),
	}
}

package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced by the conversation core. Handlers map them onto
// HTTP statuses; everything else is a generic internal failure.
const (
	CodeInvalidMessage        = "invalid_message"
	CodeUnknownUser           = "unknown_user"
	CodeGenerationUnavailable = "generation_unavailable"
	CodeMalformedAgentOutput  = "malformed_agent_output"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func InvalidMessage(err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidMessage, err)
}

func UnknownUser(err error) *Error {
	return New(http.StatusNotFound, CodeUnknownUser, err)
}

func GenerationUnavailable(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeGenerationUnavailable, err)
}

func MalformedAgentOutput(err error) *Error {
	return New(http.StatusUnprocessableEntity, CodeMalformedAgentOutput, err)
}

// Is reports whether err carries the given core error code.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// From extracts the *Error wrapped anywhere in err, or nil.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

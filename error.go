package pagecollect

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// The LLM gateway reports failures with one of the gateway codes below so
// callers can tell a bad request from an unreachable or misbehaving backend.
// Each code is the wire name of a gateway error kind:
//
//	ENOCONTENT   no_content           NoContent
//	EINVALID     invalid              InvalidRequest
//	EBACKEND     backend_http         BackendHTTPError
//	EUNREACHABLE cors_or_unreachable  CORSOrUnreachable
//	EFORMAT      unexpected_format    UnexpectedFormat
//	EMALFORMED   malformed_response   MalformedResponse
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// Gateway error kinds.
	ENOCONTENT   = "no_content"
	EBACKEND     = "backend_http"
	EUNREACHABLE = "cors_or_unreachable"
	EFORMAT      = "unexpected_format"
	EMALFORMED   = "malformed_response"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// HTTP status and response body returned by an LLM backend.
	// Only set for EBACKEND errors.
	StatusCode int
	Body       string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("pagecollect error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return their own text unchanged.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// BackendErrorf returns an EBACKEND error carrying the backend's HTTP status and body.
func BackendErrorf(status int, body string, format string, args ...any) *Error {
	return &Error{
		Code:       EBACKEND,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: status,
		Body:       body,
	}
}

// Package scrapeerr tags failures coming out of the Douyin client.
//
// The client never returns bare transport or parsing errors to callers;
// it wraps them in *Error carrying a Code, so the parse workflow can pick
// a user-facing message by kind instead of by message text.
package scrapeerr

import "fmt"

// Code is the kind of failure.
type Code int

const (
	// Other is any failure without a more specific kind.
	Other Code = iota

	// InvalidIdentifier means no sec_user_id could be found for the input URL.
	InvalidIdentifier

	// RetryExhausted means every attempt at a request failed at the transport level.
	RetryExhausted

	// EmptyResponse means Douyin answered with an empty body, which is what it
	// does for requests with a missing or expired cookie.
	EmptyResponse

	Unauthorized
	NotFound
	Unavailable

	// Response is an unexpected status code or an undecodable body.
	Response

	// Connection is a transport failure that was not retried.
	Connection
)

var codeNames = map[Code]string{
	Other:             "other",
	InvalidIdentifier: "invalid_identifier",
	RetryExhausted:    "retry_exhausted",
	EmptyResponse:     "empty_response",
	Unauthorized:      "unauthorized",
	NotFound:          "not_found",
	Unavailable:       "unavailable",
	Response:          "response",
	Connection:        "connection",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is a tagged Douyin client failure.
type Error struct {
	Code       Code
	Message    string
	URL        string
	StatusCode int

	cause error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.URL != "" {
		msg = fmt.Sprintf("%s (url: %s)", msg, e.URL)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status: %d)", msg, e.StatusCode)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an *Error without an underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an *Error around cause.
func Wrap(code Code, cause error, message string) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithURL returns a copy of e annotated with the request URL.
func (e *Error) WithURL(url string) *Error {
	cp := *e
	cp.URL = url
	return &cp
}

// WithStatus returns a copy of e annotated with the HTTP status code.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.StatusCode = status
	return &cp
}

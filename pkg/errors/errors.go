package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	CodeRateLimit       Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal        Code = "INTERNAL_ERROR"
	CodeDependency      Code = "DEPENDENCY_ERROR"
)

// Class groups codes by how a failure is handled.
type Class string

const (
	// ClassInput is a caller mistake that is reported back verbatim.
	ClassInput Class = "input"
	// ClassAccess covers gate and throttling rejections.
	ClassAccess Class = "access"
	// ClassRemote is a database, bucket or cache failure. Prior state is
	// left untouched.
	ClassRemote Class = "remote"
	// ClassUnexpected hides its message behind a generic one.
	ClassUnexpected Class = "unexpected"
)

type Metadata struct {
	HTTPStatus     int
	Class          Class
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
	// Expose lets the error's own message reach the client.
	Expose bool
}

func exposed(status int, class Class, public string) Metadata {
	return Metadata{HTTPStatus: status, Class: class, PublicMessage: public, Expose: true}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		Class:          ClassInput,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
		Expose:         true,
	},
	CodeConflict:        exposed(http.StatusConflict, ClassInput, "conflict detected"),
	CodeNotFound:        exposed(http.StatusNotFound, ClassInput, "resource not found"),
	CodePayloadTooLarge: exposed(http.StatusRequestEntityTooLarge, ClassInput, "payload too large"),
	CodeUnauthorized:    exposed(http.StatusUnauthorized, ClassAccess, "authentication required"),
	CodeForbidden:       exposed(http.StatusForbidden, ClassAccess, "access denied"),
	CodeRateLimit:       exposed(http.StatusTooManyRequests, ClassAccess, "rate limit exceeded"),
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Class:          ClassRemote,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Class:         ClassUnexpected,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
}

// MetadataFor falls back to the internal entry for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded failure with an optional client-safe payload.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap keeps err as the cause. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return fmt.Sprintf("%s: %s", e.code, e.message)
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries a typed error with the given code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// ClassOf classifies err. Untyped errors are unexpected.
func ClassOf(err error) Class {
	if typed := As(err); typed != nil {
		return MetadataFor(typed.code).Class
	}
	return ClassUnexpected
}

// Package errors provides coded errors for forcegraph.
//
// Every error that crosses a package boundary towards the CLI or the frame
// server carries a [Code], so callers branch on codes instead of matching
// strings. INVALID_* and UNKNOWN_* codes describe bad input and map to
// 400; the remaining codes describe runtime conditions.
//
//	err := errors.New(errors.ErrCodeUnknownShape, "unknown shape type %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownShape) {
//		// fall back to the default shape
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidGraph, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidNodeID Code = "INVALID_NODE_ID"

	ErrCodeUnknownShape      Code = "UNKNOWN_SHAPE"
	ErrCodeUnknownTransition Code = "UNKNOWN_TRANSITION"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeBusy         Code = "BUSY"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidFormat:     http.StatusBadRequest,
	ErrCodeInvalidGraph:      http.StatusBadRequest,
	ErrCodeInvalidConfig:     http.StatusBadRequest,
	ErrCodeInvalidMode:       http.StatusBadRequest,
	ErrCodeInvalidNodeID:     http.StatusBadRequest,
	ErrCodeUnknownShape:      http.StatusBadRequest,
	ErrCodeUnknownTransition: http.StatusBadRequest,
	ErrCodeFileNotFound:      http.StatusNotFound,
	ErrCodeBusy:              http.StatusConflict,
	ErrCodeTimeout:           http.StatusGatewayTimeout,
	ErrCodeUnsupported:       http.StatusNotImplemented,
}

// HTTPStatus is the status the frame server answers with for c. Unknown
// codes map to 500.
func (c Code) HTTPStatus() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "" when there is none.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code prefix,
// and err.Error() for anything else.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status through its code.
func HTTPStatus(err error) int {
	return GetCode(err).HTTPStatus()
}

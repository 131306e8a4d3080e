// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.microglot.org/lrengine.go/internal/idl"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

type Location struct {
	idl.Location
	URI string
}

func (l Location) String() string {
	if l.Line == 0 && l.Column == 0 {
		return l.URI
	}
	return fmt.Sprintf("%s:%d:%d", l.URI, l.Line, l.Column)
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	loc := e.location.String()
	if loc == "" {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
	return fmt.Sprintf("%s -- %s: %s", loc, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Newf(location Location, code string, format string, args ...any) Exception {
	return New(location, code, fmt.Sprintf(format, args...))
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// WithLocation re-homes an Exception at the given location while keeping its
// code. Errors that are not Exceptions are returned unchanged.
func WithLocation(location Location, err error) error {
	e, ok := err.(Exception)
	if !ok {
		return err
	}
	return Wrap(location, e.Code(), e)
}

// CodeOf returns the code of the first Exception in the error chain, or the
// empty string.
func CodeOf(err error) string {
	var e Exception
	if errors.As(err, &e) {
		return e.Code()
	}
	return ""
}

type MultiException []Exception

func (self MultiException) Error() string {
	if len(self) == 0 {
		return ""
	}
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}

// Unwrap exposes the collected exceptions to errors.Is and errors.As.
func (self MultiException) Unwrap() []error {
	out := make([]error, len(self))
	for x, e := range self {
		out[x] = e
	}
	return out
}

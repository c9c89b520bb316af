/*
NAME
  errclass.go

DESCRIPTION
  Provides the error taxonomy shared across the compression pipeline:
  InvalidInput, InvalidFormat, InvalidConfig, Truncated and OutOfRange,
  layered on top of github.com/pkg/errors so call sites keep their
  wrapped context and stack trace.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package errclass classifies the errors the compression pipeline can
// return, so callers (in particular cmd/aclc) can decide how to react
// without string-matching error messages.
package errclass

import "github.com/pkg/errors"

// Class is one of the error categories the core library reports.
type Class int

const (
	// InvalidInput covers nil references, zero bones, zero samples,
	// and non-finite values supplied by the caller.
	InvalidInput Class = iota

	// InvalidFormat covers decode-time failures: tag mismatch,
	// version mismatch, unknown algorithm id.
	InvalidFormat

	// InvalidConfig covers illegal compression settings: ideal segment
	// size greater than the max, ideal below the floor, a missing
	// error metric, or an unsupported format combination.
	InvalidConfig

	// Truncated covers SJSON parse errors caused by an incomplete
	// document.
	Truncated

	// OutOfRange covers a quantization step that cannot represent the
	// requested precision. Reaching this is an assertion failure: a
	// well-formed error metric and segment range should make it
	// unreachable.
	OutOfRange
)

// String names the class, used in wrapped error messages.
func (c Class) String() string {
	switch c {
	case InvalidInput:
		return "invalid input"
	case InvalidFormat:
		return "invalid format"
	case InvalidConfig:
		return "invalid config"
	case Truncated:
		return "truncated"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown error class"
	}
}

// classified wraps an underlying error with its Class, so ClassOf can
// recover it after the error has been wrapped further up the stack by
// errors.Wrap.
type classified struct {
	class Class
	err   error
}

func (c *classified) Error() string { return c.err.Error() }
func (c *classified) Unwrap() error { return c.err }

// New returns a new error of the given class with message msg.
func New(class Class, msg string) error {
	return &classified{class: class, err: errors.New(msg)}
}

// Errorf returns a new error of the given class, formatted like
// fmt.Errorf.
func Errorf(class Class, format string, args ...interface{}) error {
	return &classified{class: class, err: errors.Errorf(format, args...)}
}

// Wrap attaches class and an explanatory message to err. If err is
// nil, Wrap returns nil.
func Wrap(class Class, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &classified{class: class, err: errors.Wrap(err, msg)}
}

// ClassOf reports the Class attached to err (searching its wrap
// chain) and whether one was found.
func ClassOf(err error) (Class, bool) {
	var c *classified
	if errors.As(err, &c) {
		return c.class, true
	}
	return 0, false
}

// Is reports whether err is classified as class anywhere in its wrap
// chain.
func Is(err error, class Class) bool {
	c, ok := ClassOf(err)
	return ok && c == class
}

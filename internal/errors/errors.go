// Package errors wraps github.com/pkg/errors and adds typed error classes.
//
// Wrap every error that crosses a package boundary, so the stack of the first failure
// is kept and FindErrorType can tell which class the failure belongs to.
package errors

import (
	"github.com/pkg/errors"
)

// New returns an error with the supplied message and the current stack.
func New(message string) error {
	return errors.New(message)
}

// Errorf formats according to a format specifier and returns it as an error with stack.
func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Wrap annotates err with message. Returns nil if err is nil.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with the format specifier. Returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// WithStack annotates err with the stack trace of the caller.
func WithStack(err error) error {
	return errors.WithStack(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Cause returns the innermost error of the wrapped chain.
func Cause(err error) error {
	return errors.Cause(err)
}

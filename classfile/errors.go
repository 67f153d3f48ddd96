package classfile

import (
	"errors"
	"fmt"
)

// ErrMalformed matches every MalformedInputError.
var ErrMalformed = errors.New("malformed class file")

// MalformedInputError reports a class file whose binary structure could not
// be decoded. It is fatal for that one file only.
type MalformedInputError struct {
	Source string
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed class file"
	if e.Source != "" {
		msg += " " + e.Source
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

func malformed(err error, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// WithSource returns err annotated with the location it was read from when
// err is a MalformedInputError, and err unchanged otherwise.
func WithSource(err error, source string) error {
	var m *MalformedInputError
	if errors.As(err, &m) {
		cp := *m
		cp.Source = source
		return &cp
	}
	return err
}

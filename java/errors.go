package java

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned when a completed graph is asked for something it
// does not contain.
type NotFoundError struct {
	// Container describes what was searched, e.g. "Package <java.lang>".
	Container string
	// Kind is the kind of element looked for, e.g. "package" or "class".
	Kind       string
	Identifier string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "annotation" {
		return fmt.Sprintf("%s is not annotated with %s", e.Container, e.Identifier)
	}
	return fmt.Sprintf("%s does not contain %s %s", e.Container, e.Kind, e.Identifier)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(container, kind, identifier string) error {
	return &NotFoundError{Container: container, Kind: kind, Identifier: identifier}
}

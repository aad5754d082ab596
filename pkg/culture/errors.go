package culture

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName      = errors.New("culture name is empty")
	ErrEmptyFallbacks = errors.New("pure culture requires at least one fallback")
)

// ErrInvalidName reports a culture name that failed syntax validation.
type ErrInvalidName struct {
	Name string
	Err  error
}

func (e *ErrInvalidName) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("culture: invalid name %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("culture: invalid name %q", e.Name)
}

func (e *ErrInvalidName) Unwrap() error {
	return e.Err
}

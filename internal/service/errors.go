package service

import (
	"errors"

	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/repository"
)

// Kind classifies a service error for the transport layer.
type Kind int

// Kind values.
const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindMissingIngredients
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindMissingIngredients:
		return "missing ingredients"
	default:
		return "internal"
	}
}

// Error is returned by every service operation. Err is the repository or
// validation error that caused it.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindInternal when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// wrap classifies err and tags it with the operation name.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindInternal
	switch err.(type) {
	case repository.NotFoundError:
		kind = KindNotFound
	case repository.ConflictError:
		kind = KindConflict
	case repository.MissingIDsError:
		kind = KindMissingIngredients
	case models.ValidationError:
		kind = KindValidation
	}
	if errors.Is(err, repository.ErrEmptyChangeset) {
		kind = KindValidation
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

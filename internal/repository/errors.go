package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
)

// ErrEmptyChangeset is returned when an update carries no fields at all.
var ErrEmptyChangeset = errors.New("the changeset has no fields to update")

// NotFoundError is an error type for when a resource is not found.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

// Error returns the error message.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("the %s with ID of %s was not found", e.Entity, e.ID)
}

// ConflictError is returned when a write would break a uniqueness or reference constraint.
type ConflictError struct {
	Entity string
	Field  string
}

// Error returns the error message.
func (e ConflictError) Error() string {
	return fmt.Sprintf("could not write the %s: the value of %s conflicts with existing data", e.Entity, e.Field)
}

// MissingIDsError lists every requested ID that does not exist.
type MissingIDsError struct {
	Entity string
	IDs    []uuid.UUID
}

// Error returns the error message.
func (e MissingIDsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("could not find the %ss with the following IDs: %s", e.Entity, strings.Join(ids, ", "))
}

// UnknownError wraps storage failures that have no domain meaning.
type UnknownError struct {
	Err error
}

// Error returns the error message.
func (e UnknownError) Error() string {
	return "unexpected repository error: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e UnknownError) Unwrap() error {
	return e.Err
}

// missingIDs returns the requested IDs absent from found, in request order and without repeats.
func missingIDs(requested []uuid.UUID, found map[uuid.UUID]struct{}) []uuid.UUID {
	var missing []uuid.UUID
	seen := make(map[uuid.UUID]struct{}, len(requested))
	for _, id := range requested {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// asRepositoryError passes typed errors through and wraps everything else as an UnknownError.
func asRepositoryError(err error) error {
	switch err.(type) {
	case NotFoundError, ConflictError, MissingIDsError, UnknownError, models.ValidationError:
		return err
	}
	if errors.Is(err, ErrEmptyChangeset) {
		return err
	}
	return UnknownError{Err: err}
}

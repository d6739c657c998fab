package models

import (
	"encoding/json"
	"slices"
)

// NonEmpty is a sequence that always holds at least one item. The zero value is
// not valid; build one with NewNonEmpty.
type NonEmpty[T any] struct {
	items []T
}

// NewNonEmpty copies items into a NonEmpty, failing when there are none.
func NewNonEmpty[T any](field string, items []T) (NonEmpty[T], error) {
	if len(items) == 0 {
		return NonEmpty[T]{}, ValidationError{Field: field, Reason: "must contain at least one item"}
	}
	return NonEmpty[T]{items: slices.Clone(items)}, nil
}

// Items returns a copy of the underlying items.
func (n NonEmpty[T]) Items() []T {
	return slices.Clone(n.items)
}

// Len returns the number of items.
func (n NonEmpty[T]) Len() int {
	return len(n.items)
}

// First returns the first item.
func (n NonEmpty[T]) First() T {
	return n.items[0]
}

// MarshalJSON encodes the items as a plain JSON array.
func (n NonEmpty[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.items)
}

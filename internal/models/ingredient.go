package models

import (
	"slices"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
)

// IngredientName is the validated, unique name of an ingredient.
type IngredientName string

// NewIngredientName validates and returns an IngredientName.
func NewIngredientName(value string) (IngredientName, error) {
	v, err := requireText("name", value, MaxNameLength)
	return IngredientName(v), err
}

// IngredientDescription is the validated description of an ingredient.
type IngredientDescription string

// NewIngredientDescription validates and returns an IngredientDescription.
func NewIngredientDescription(value string) (IngredientDescription, error) {
	v, err := requireText("description", value, MaxDescriptionLength)
	return IngredientDescription(v), err
}

// DietFriendly is the type for the DietFriendly enum.
type DietFriendly string

// DietFriendly enum values.
const (
	Vegan      DietFriendly = "vegan"
	Vegetarian DietFriendly = "vegetarian"
	GlutenFree DietFriendly = "gluten_free"
)

// ParseDietFriendly parses a diet tag, ignoring case and surrounding whitespace.
func ParseDietFriendly(value string) (DietFriendly, error) {
	tag := strings.ToLower(strings.TrimSpace(value))
	if !govalidator.IsIn(tag, string(Vegan), string(Vegetarian), string(GlutenFree)) {
		return "", ValidationError{Field: "diet_friendly", Reason: "unknown diet " + value}
	}
	return DietFriendly(tag), nil
}

// WhichDiets is a sorted set of diet tags without duplicates.
type WhichDiets []DietFriendly

// NewWhichDiets parses every tag and returns them as a set.
func NewWhichDiets(tags []string) (WhichDiets, error) {
	diets := make(WhichDiets, 0, len(tags))
	for _, t := range tags {
		d, err := ParseDietFriendly(t)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(diets, d) {
			diets = append(diets, d)
		}
	}
	slices.Sort(diets)
	return diets, nil
}

// Contains reports whether the set holds the given diet.
func (w WhichDiets) Contains(d DietFriendly) bool {
	return slices.Contains(w, d)
}

// Strings returns the tags as plain strings.
func (w WhichDiets) Strings() []string {
	out := make([]string, len(w))
	for i, d := range w {
		out[i] = string(d)
	}
	return out
}

// Equal reports whether both sets hold the same tags.
func (w WhichDiets) Equal(other WhichDiets) bool {
	return slices.Equal(w, other)
}

// Ingredient is the model for an ingredient.
type Ingredient struct {
	ID           uuid.UUID
	Name         IngredientName
	Description  IngredientDescription
	DietFriendly WhichDiets
}

// NewIngredient validates every field and returns an Ingredient.
func NewIngredient(id uuid.UUID, name, description string, diets []string) (Ingredient, error) {
	n, err := NewIngredientName(name)
	if err != nil {
		return Ingredient{}, err
	}
	d, err := NewIngredientDescription(description)
	if err != nil {
		return Ingredient{}, err
	}
	df, err := NewWhichDiets(diets)
	if err != nil {
		return Ingredient{}, err
	}
	return Ingredient{ID: id, Name: n, Description: d, DietFriendly: df}, nil
}

// Clone returns a copy that shares no memory with the receiver.
func (i Ingredient) Clone() Ingredient {
	i.DietFriendly = slices.Clone(i.DietFriendly)
	return i
}

// IngredientChangeset is a partial update of an ingredient. Nil fields are left untouched.
type IngredientChangeset struct {
	Name         *IngredientName
	Description  *IngredientDescription
	DietFriendly *WhichDiets
}

// NewIngredientChangeset validates every present field and returns a changeset.
func NewIngredientChangeset(name, description *string, diets *[]string) (IngredientChangeset, error) {
	var cs IngredientChangeset
	if name != nil {
		n, err := NewIngredientName(*name)
		if err != nil {
			return cs, err
		}
		cs.Name = &n
	}
	if description != nil {
		d, err := NewIngredientDescription(*description)
		if err != nil {
			return cs, err
		}
		cs.Description = &d
	}
	if diets != nil {
		df, err := NewWhichDiets(*diets)
		if err != nil {
			return cs, err
		}
		cs.DietFriendly = &df
	}
	return cs, nil
}

// IsEmpty reports whether the changeset carries no fields.
func (cs IngredientChangeset) IsEmpty() bool {
	return cs.Name == nil && cs.Description == nil && cs.DietFriendly == nil
}

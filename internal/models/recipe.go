package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Unit is the type for the Unit enum.
type Unit string

// Unit enum values.
const (
	Grams       Unit = "grams"
	Kilograms   Unit = "kilograms"
	Milliliters Unit = "milliliters"
	Liters      Unit = "liters"
	Teaspoons   Unit = "teaspoons"
	Tablespoons Unit = "tablespoons"
	Cups        Unit = "cups"
	Pieces      Unit = "pieces"
)

var knownUnits = []Unit{Grams, Kilograms, Milliliters, Liters, Teaspoons, Tablespoons, Cups, Pieces}

// IngredientUnit is an amount of an ingredient in a given unit.
type IngredientUnit struct {
	Unit   Unit    `json:"unit"`
	Amount float64 `json:"amount"`
}

// NewIngredientUnit validates the unit and amount.
func NewIngredientUnit(unit string, amount float64) (IngredientUnit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(unit)))
	if !slices.Contains(knownUnits, u) {
		return IngredientUnit{}, ValidationError{Field: "amount", Reason: "unknown unit " + unit}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return IngredientUnit{}, ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	return IngredientUnit{Unit: u, Amount: amount}, nil
}

// Scan is a GORM hook that scans jsonb into IngredientUnit.
func (u *IngredientUnit) Scan(value interface{}) error {
	return scanJSONB(value, u)
}

// Value is a GORM hook that returns json value of IngredientUnit.
func (u IngredientUnit) Value() (driver.Value, error) {
	return json.Marshal(u)
}

// ServingsKind is the type for the ServingsKind enum.
type ServingsKind string

// ServingsKind enum values.
const (
	ServingsExact  ServingsKind = "exact"
	ServingsFromTo ServingsKind = "from_to"
)

// Servings is either an exact count or an inclusive range.
type Servings struct {
	Kind ServingsKind `json:"kind"`
	From uint         `json:"from"`
	To   uint         `json:"to"`
}

// ExactServings returns servings for exactly n people.
func ExactServings(n uint) (Servings, error) {
	if n == 0 {
		return Servings{}, ValidationError{Field: "servings", Reason: "must be at least 1"}
	}
	return Servings{Kind: ServingsExact, From: n, To: n}, nil
}

// ServingsRange returns servings for from to to people.
func ServingsRange(from, to uint) (Servings, error) {
	if from == 0 || to < from {
		return Servings{}, ValidationError{Field: "servings", Reason: "range must satisfy 0 < from <= to"}
	}
	return Servings{Kind: ServingsFromTo, From: from, To: to}, nil
}

// Validate checks the servings were built by ExactServings or ServingsRange.
func (s Servings) Validate() error {
	switch s.Kind {
	case ServingsExact:
		if s.From == 0 || s.From != s.To {
			return ValidationError{Field: "servings", Reason: "exact servings must be at least 1"}
		}
	case ServingsFromTo:
		if s.From == 0 || s.To < s.From {
			return ValidationError{Field: "servings", Reason: "range must satisfy 0 < from <= to"}
		}
	default:
		return ValidationError{Field: "servings", Reason: "must be set"}
	}
	return nil
}

// Scan is a GORM hook that scans jsonb into Servings.
func (s *Servings) Scan(value interface{}) error {
	return scanJSONB(value, s)
}

// Value is a GORM hook that returns json value of Servings.
func (s Servings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// RecipeTime maps a phase name (prep, cooking...) to its duration.
type RecipeTime map[string]time.Duration

// NewRecipeTime validates phase names and durations.
func NewRecipeTime(phases map[string]time.Duration) (RecipeTime, error) {
	out := make(RecipeTime, len(phases))
	for name, d := range phases {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, ValidationError{Field: "time", Reason: "phase name must not be empty"}
		}
		if _, dup := out[trimmed]; dup {
			return nil, ValidationError{Field: "time", Reason: fmt.Sprintf("phase %q is listed more than once", trimmed)}
		}
		if d < 0 {
			return nil, ValidationError{Field: "time", Reason: fmt.Sprintf("duration of %q must not be negative", trimmed)}
		}
		out[trimmed] = d
	}
	return out, nil
}

// Seconds returns the phases in whole seconds.
func (t RecipeTime) Seconds() map[string]int64 {
	out := make(map[string]int64, len(t))
	for name, d := range t {
		out[name] = int64(d / time.Second)
	}
	return out
}

// Scan is a GORM hook that scans jsonb (seconds per phase) into RecipeTime.
func (t *RecipeTime) Scan(value interface{}) error {
	var secs map[string]int64
	if err := scanJSONB(value, &secs); err != nil {
		return err
	}
	out := make(RecipeTime, len(secs))
	for name, s := range secs {
		out[name] = time.Duration(s) * time.Second
	}
	*t = out
	return nil
}

// Value is a GORM hook that returns json value of RecipeTime.
func (t RecipeTime) Value() (driver.Value, error) {
	return json.Marshal(t.Seconds())
}

// IngredientWithAmount is an ingredient as used by a recipe.
type IngredientWithAmount struct {
	Ingredient Ingredient
	Amount     IngredientUnit
	Optional   bool
	Notes      *string
}

// Recipe is the model for a recipe.
type Recipe struct {
	ID          uuid.UUID
	Name        string
	Description string
	Steps       NonEmpty[string]
	Ingredients NonEmpty[IngredientWithAmount]
	Time        RecipeTime
	Servings    Servings
}

// NewRecipe validates every field and returns a Recipe.
func NewRecipe(id uuid.UUID, name, description string, steps []string, ingredients []IngredientWithAmount, phases map[string]time.Duration, servings Servings) (Recipe, error) {
	n, err := requireText("name", name, MaxNameLength)
	if err != nil {
		return Recipe{}, err
	}
	d, err := requireText("description", description, MaxDescriptionLength)
	if err != nil {
		return Recipe{}, err
	}
	s, err := NewSteps(steps)
	if err != nil {
		return Recipe{}, err
	}
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if _, dup := seen[ing.Ingredient.ID]; dup {
			return Recipe{}, ValidationError{Field: "ingredients", Reason: "ingredient " + ing.Ingredient.ID.String() + " is listed twice"}
		}
		seen[ing.Ingredient.ID] = struct{}{}
	}
	ings, err := NewNonEmpty("ingredients", ingredients)
	if err != nil {
		return Recipe{}, err
	}
	t, err := NewRecipeTime(phases)
	if err != nil {
		return Recipe{}, err
	}
	if err := servings.Validate(); err != nil {
		return Recipe{}, err
	}
	return Recipe{ID: id, Name: n, Description: d, Steps: s, Ingredients: ings, Time: t, Servings: servings}, nil
}

// NewSteps trims every step and rejects blank ones.
func NewSteps(steps []string) (NonEmpty[string], error) {
	cleaned := make([]string, len(steps))
	for i, s := range steps {
		cleaned[i] = strings.TrimSpace(s)
		if cleaned[i] == "" {
			return NonEmpty[string]{}, ValidationError{Field: "steps", Reason: fmt.Sprintf("step %d must not be empty", i+1)}
		}
	}
	return NewNonEmpty("steps", cleaned)
}

// Clone returns a copy that shares no memory with the receiver.
func (r Recipe) Clone() Recipe {
	items := r.Ingredients.Items()
	for i := range items {
		items[i].Ingredient = items[i].Ingredient.Clone()
		if items[i].Notes != nil {
			n := *items[i].Notes
			items[i].Notes = &n
		}
	}
	r.Ingredients = NonEmpty[IngredientWithAmount]{items: items}
	r.Steps = NonEmpty[string]{items: r.Steps.Items()}
	r.Time = maps.Clone(r.Time)
	return r
}

// HasIngredient reports whether the recipe uses the given ingredient.
func (r Recipe) HasIngredient(id uuid.UUID) bool {
	return slices.ContainsFunc(r.Ingredients.items, func(i IngredientWithAmount) bool {
		return i.Ingredient.ID == id
	})
}

// RecipeChangeset is a partial update of a recipe. Nil fields are left untouched.
type RecipeChangeset struct {
	Name        *string
	Description *string
	Steps       *NonEmpty[string]
	Time        *RecipeTime
	Servings    *Servings
}

// IsEmpty reports whether the changeset carries no fields.
func (cs RecipeChangeset) IsEmpty() bool {
	return cs.Name == nil && cs.Description == nil && cs.Steps == nil && cs.Time == nil && cs.Servings == nil
}

// NewRecipeChangeset validates every present field and returns a changeset.
func NewRecipeChangeset(name, description *string, steps *[]string, phases *map[string]time.Duration, servings *Servings) (RecipeChangeset, error) {
	var cs RecipeChangeset
	if name != nil {
		n, err := requireText("name", *name, MaxNameLength)
		if err != nil {
			return cs, err
		}
		cs.Name = &n
	}
	if description != nil {
		d, err := requireText("description", *description, MaxDescriptionLength)
		if err != nil {
			return cs, err
		}
		cs.Description = &d
	}
	if steps != nil {
		s, err := NewSteps(*steps)
		if err != nil {
			return cs, err
		}
		cs.Steps = &s
	}
	if phases != nil {
		t, err := NewRecipeTime(*phases)
		if err != nil {
			return cs, err
		}
		cs.Time = &t
	}
	if servings != nil {
		if err := servings.Validate(); err != nil {
			return cs, err
		}
		s := *servings
		cs.Servings = &s
	}
	return cs, nil
}

// NewIngredientsList rebuilds a recipe ingredient list, keeping it non-empty.
func NewIngredientsList(items []IngredientWithAmount) (NonEmpty[IngredientWithAmount], error) {
	return NewNonEmpty("ingredients", items)
}

func scanJSONB(value interface{}, dest interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, dest)
}

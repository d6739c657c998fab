package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
)

// CreateIngredientRequest is the body of a create-ingredient call.
type CreateIngredientRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	DietFriendly []string `json:"diet_friendly"`
}

// UpdateIngredientRequest is the body of an update-ingredient call. Absent fields are left untouched.
type UpdateIngredientRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	DietFriendly *[]string `json:"diet_friendly"`
}

// IngredientResponse is the response object for ingredient-related operations.
type IngredientResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	DietFriendly []string `json:"diet_friendly"`
}

// ToIngredientResponse converts an ingredient to its response form.
func ToIngredientResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:           i.ID.String(),
		Name:         string(i.Name),
		Description:  string(i.Description),
		DietFriendly: i.DietFriendly.Strings(),
	}
}

// AmountDTO is an amount of an ingredient in a unit.
type AmountDTO struct {
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount"`
}

// ServingsDTO carries exactly one of Exact or FromTo.
type ServingsDTO struct {
	Exact  *uint    `json:"exact,omitempty"`
	FromTo *[2]uint `json:"from_to,omitempty"`
}

func (d ServingsDTO) toModel() (models.Servings, error) {
	switch {
	case d.Exact != nil && d.FromTo == nil:
		return models.ExactServings(*d.Exact)
	case d.FromTo != nil && d.Exact == nil:
		return models.ServingsRange(d.FromTo[0], d.FromTo[1])
	}
	return models.Servings{}, models.ValidationError{Field: "servings", Reason: "exactly one of exact or from_to must be set"}
}

func toServingsDTO(s models.Servings) ServingsDTO {
	if s.Kind == models.ServingsExact {
		n := s.From
		return ServingsDTO{Exact: &n}
	}
	return ServingsDTO{FromTo: &[2]uint{s.From, s.To}}
}

// RecipeIngredientRequest references an existing ingredient by ID with the amount used.
type RecipeIngredientRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Amount       AmountDTO `json:"amount"`
	Optional     bool      `json:"optional"`
	Notes        *string   `json:"notes"`
}

// CreateRecipeRequest is the body of a create-recipe call. Time is in seconds per phase.
type CreateRecipeRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Steps       []string                  `json:"steps"`
	Ingredients []RecipeIngredientRequest `json:"ingredients"`
	Time        map[string]int64          `json:"time"`
	Servings    ServingsDTO               `json:"servings"`
}

// UpdateRecipeRequest is the body of an update-recipe call. Absent fields are left untouched.
type UpdateRecipeRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Steps       *[]string         `json:"steps"`
	Time        *map[string]int64 `json:"time"`
	Servings    *ServingsDTO      `json:"servings"`
}

// RecipeIngredientResponse is an ingredient as listed in a recipe.
type RecipeIngredientResponse struct {
	Ingredient IngredientResponse `json:"ingredient"`
	Amount     AmountDTO          `json:"amount"`
	Optional   bool               `json:"optional"`
	Notes      *string            `json:"notes,omitempty"`
}

// RecipeResponse is the response object for recipe-related operations.
type RecipeResponse struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Steps       []string                   `json:"steps"`
	Ingredients []RecipeIngredientResponse `json:"ingredients"`
	Time        map[string]int64           `json:"time"`
	Servings    ServingsDTO                `json:"servings"`
}

// ToRecipeResponse converts a recipe to its response form.
func ToRecipeResponse(r models.Recipe) RecipeResponse {
	items := r.Ingredients.Items()
	ingredients := make([]RecipeIngredientResponse, len(items))
	for i, item := range items {
		ingredients[i] = RecipeIngredientResponse{
			Ingredient: ToIngredientResponse(item.Ingredient),
			Amount:     AmountDTO{Unit: string(item.Amount.Unit), Amount: item.Amount.Amount},
			Optional:   item.Optional,
			Notes:      item.Notes,
		}
	}
	return RecipeResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Steps:       r.Steps.Items(),
		Ingredients: ingredients,
		Time:        r.Time.Seconds(),
		Servings:    toServingsDTO(r.Servings),
	}
}

// maxPhaseSeconds is the longest phase a time.Duration can hold.
const maxPhaseSeconds = math.MaxInt64 / int64(time.Second)

func secondsToPhases(secs map[string]int64) (map[string]time.Duration, error) {
	phases := make(map[string]time.Duration, len(secs))
	for name, s := range secs {
		if s < 0 || s > maxPhaseSeconds {
			return nil, models.ValidationError{
				Field:  "time",
				Reason: fmt.Sprintf("duration of %q must be between 0 and %d seconds", name, maxPhaseSeconds),
			}
		}
		phases[name] = time.Duration(s) * time.Second
	}
	return phases, nil
}

package repository

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
)

const recipeEntity = "recipe"

// InMemoryRecipeRepository keeps recipes in a process-local map.
type InMemoryRecipeRepository struct {
	store *guardedMap[models.Recipe]
}

// NewInMemoryRecipeRepository creates a new InMemoryRecipeRepository holding the given recipes.
func NewInMemoryRecipeRepository(seed ...models.Recipe) *InMemoryRecipeRepository {
	items := make(map[uuid.UUID]models.Recipe, len(seed))
	for _, r := range seed {
		items[r.ID] = r.Clone()
	}
	return &InMemoryRecipeRepository{store: newGuardedMap(recipeEntity, items)}
}

// Insert stores a new recipe.
func (r *InMemoryRecipeRepository) Insert(_ context.Context, recipe models.Recipe) (*models.Recipe, error) {
	var out models.Recipe
	err := r.store.with(func(items map[uuid.UUID]models.Recipe) error {
		if _, exists := items[recipe.ID]; exists {
			return ConflictError{Entity: recipeEntity, Field: "id"}
		}
		items[recipe.ID] = recipe.Clone()
		out = recipe.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a recipe by its ID.
func (r *InMemoryRecipeRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Recipe, error) {
	var out models.Recipe
	err := r.store.with(func(items map[uuid.UUID]models.Recipe) error {
		recipe, ok := items[id]
		if !ok {
			return NotFoundError{Entity: recipeEntity, ID: id}
		}
		out = recipe.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAll returns every recipe, oldest first.
func (r *InMemoryRecipeRepository) GetAll(_ context.Context) ([]models.Recipe, error) {
	out := []models.Recipe{}
	err := r.store.with(func(items map[uuid.UUID]models.Recipe) error {
		for _, recipe := range items {
			out = append(out, recipe.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b models.Recipe) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

// Update applies the changeset to the stored recipe.
func (r *InMemoryRecipeRepository) Update(_ context.Context, id uuid.UUID, changeset models.RecipeChangeset) (*models.Recipe, error) {
	if changeset.IsEmpty() {
		return nil, ErrEmptyChangeset
	}

	var out models.Recipe
	err := r.store.with(func(items map[uuid.UUID]models.Recipe) error {
		current, ok := items[id]
		if !ok {
			return NotFoundError{Entity: recipeEntity, ID: id}
		}
		updated := current.Clone()
		if changeset.Name != nil {
			updated.Name = *changeset.Name
		}
		if changeset.Description != nil {
			updated.Description = *changeset.Description
		}
		if changeset.Steps != nil {
			steps, err := models.NewSteps(changeset.Steps.Items())
			if err != nil {
				return err
			}
			updated.Steps = steps
		}
		if changeset.Time != nil {
			t, err := models.NewRecipeTime(*changeset.Time)
			if err != nil {
				return err
			}
			updated.Time = t
		}
		if changeset.Servings != nil {
			if err := changeset.Servings.Validate(); err != nil {
				return err
			}
			updated.Servings = *changeset.Servings
		}
		items[id] = updated
		out = updated.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a recipe.
func (r *InMemoryRecipeRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.store.with(func(items map[uuid.UUID]models.Recipe) error {
		if _, ok := items[id]; !ok {
			return NotFoundError{Entity: recipeEntity, ID: id}
		}
		delete(items, id)
		return nil
	})
}

// AddIngredient appends an ingredient to the recipe's ingredient list.
func (r *InMemoryRecipeRepository) AddIngredient(_ context.Context, recipeID uuid.UUID, ingredient models.IngredientWithAmount) (*models.Recipe, error) {
	var out models.Recipe
	err := r.store.with(func(items map[uuid.UUID]models.Recipe) error {
		current, ok := items[recipeID]
		if !ok {
			return NotFoundError{Entity: recipeEntity, ID: recipeID}
		}
		if current.HasIngredient(ingredient.Ingredient.ID) {
			return ConflictError{Entity: recipeEntity, Field: "ingredient"}
		}
		updated := current.Clone()
		list, err := models.NewIngredientsList(append(updated.Ingredients.Items(), ingredient))
		if err != nil {
			return err
		}
		updated.Ingredients = list
		items[recipeID] = updated.Clone()
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveIngredient drops an ingredient from the recipe's ingredient list.
func (r *InMemoryRecipeRepository) RemoveIngredient(_ context.Context, recipeID, ingredientID uuid.UUID) (*models.Recipe, error) {
	var out models.Recipe
	err := r.store.with(func(items map[uuid.UUID]models.Recipe) error {
		current, ok := items[recipeID]
		if !ok {
			return NotFoundError{Entity: recipeEntity, ID: recipeID}
		}
		if !current.HasIngredient(ingredientID) {
			return NotFoundError{Entity: ingredientEntity, ID: ingredientID}
		}
		updated := current.Clone()
		remaining := slices.DeleteFunc(updated.Ingredients.Items(), func(i models.IngredientWithAmount) bool {
			return i.Ingredient.ID == ingredientID
		})
		list, err := models.NewIngredientsList(remaining)
		if err != nil {
			return err
		}
		updated.Ingredients = list
		items[recipeID] = updated.Clone()
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

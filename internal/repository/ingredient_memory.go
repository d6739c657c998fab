package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
	"go.uber.org/zap"
)

const ingredientEntity = "ingredient"

// InMemoryIngredientRepository keeps ingredients in a process-local map.
type InMemoryIngredientRepository struct {
	store *guardedMap[models.Ingredient]
}

// NewInMemoryIngredientRepository creates a new InMemoryIngredientRepository holding the given ingredients.
func NewInMemoryIngredientRepository(seed ...models.Ingredient) *InMemoryIngredientRepository {
	items := make(map[uuid.UUID]models.Ingredient, len(seed))
	for _, i := range seed {
		items[i.ID] = i.Clone()
	}
	return &InMemoryIngredientRepository{store: newGuardedMap(ingredientEntity, items)}
}

// Insert stores a new ingredient. The ID and the name must both be unused.
func (r *InMemoryIngredientRepository) Insert(_ context.Context, ingredient models.Ingredient) (*models.Ingredient, error) {
	var out models.Ingredient
	err := r.store.with(func(items map[uuid.UUID]models.Ingredient) error {
		if _, exists := items[ingredient.ID]; exists {
			return ConflictError{Entity: ingredientEntity, Field: "id"}
		}
		if nameTaken(items, ingredient.Name, uuid.Nil) {
			return ConflictError{Entity: ingredientEntity, Field: "name"}
		}
		items[ingredient.ID] = ingredient.Clone()
		out = ingredient.Clone()
		return nil
	})
	if err != nil {
		logger.Get().Warn("failed to insert ingredient", zap.String("ingredient_id", ingredient.ID.String()), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves an ingredient by its ID.
func (r *InMemoryIngredientRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var out models.Ingredient
	err := r.store.with(func(items map[uuid.UUID]models.Ingredient) error {
		i, ok := items[id]
		if !ok {
			return NotFoundError{Entity: ingredientEntity, ID: id}
		}
		out = i.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAll returns every ingredient ordered by name.
func (r *InMemoryIngredientRepository) GetAll(_ context.Context) ([]models.Ingredient, error) {
	out := []models.Ingredient{}
	err := r.store.with(func(items map[uuid.UUID]models.Ingredient) error {
		for _, i := range items {
			out = append(out, i.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortIngredients(out)
	return out, nil
}

// GetAllByID returns the requested ingredients in request order.
func (r *InMemoryIngredientRepository) GetAllByID(_ context.Context, ids []uuid.UUID) ([]models.Ingredient, error) {
	var out []models.Ingredient
	err := r.store.with(func(items map[uuid.UUID]models.Ingredient) error {
		found := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			if i, ok := items[id]; ok {
				found[id] = struct{}{}
				out = append(out, i.Clone())
			}
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return MissingIDsError{Entity: ingredientEntity, IDs: missing}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupeIngredients(out), nil
}

// Update applies the changeset to the stored ingredient.
func (r *InMemoryIngredientRepository) Update(_ context.Context, id uuid.UUID, changeset models.IngredientChangeset) (*models.Ingredient, error) {
	if changeset.IsEmpty() {
		return nil, ErrEmptyChangeset
	}

	var out models.Ingredient
	err := r.store.with(func(items map[uuid.UUID]models.Ingredient) error {
		current, ok := items[id]
		if !ok {
			return NotFoundError{Entity: ingredientEntity, ID: id}
		}
		updated := current.Clone()
		if changeset.Name != nil {
			name, err := models.NewIngredientName(string(*changeset.Name))
			if err != nil {
				return err
			}
			if name != current.Name && nameTaken(items, name, id) {
				return ConflictError{Entity: ingredientEntity, Field: "name"}
			}
			updated.Name = name
		}
		if changeset.Description != nil {
			description, err := models.NewIngredientDescription(string(*changeset.Description))
			if err != nil {
				return err
			}
			updated.Description = description
		}
		if changeset.DietFriendly != nil {
			diets, err := models.NewWhichDiets(changeset.DietFriendly.Strings())
			if err != nil {
				return err
			}
			updated.DietFriendly = diets
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

// Delete removes an ingredient. Recipes keep their own copy of the ingredient.
func (r *InMemoryIngredientRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.store.with(func(items map[uuid.UUID]models.Ingredient) error {
		if _, ok := items[id]; !ok {
			return NotFoundError{Entity: ingredientEntity, ID: id}
		}
		delete(items, id)
		return nil
	})
}

// nameTaken reports whether an ingredient other than except already uses name.
func nameTaken(items map[uuid.UUID]models.Ingredient, name models.IngredientName, except uuid.UUID) bool {
	for id, i := range items {
		if id != except && i.Name == name {
			return true
		}
	}
	return false
}

func sortIngredients(ingredients []models.Ingredient) {
	slices.SortFunc(ingredients, func(a, b models.Ingredient) int {
		if c := strings.Compare(string(a.Name), string(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

// dedupeIngredients keeps the first occurrence of every ID.
func dedupeIngredients(ingredients []models.Ingredient) []models.Ingredient {
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	out := make([]models.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		if _, ok := seen[i.ID]; ok {
			continue
		}
		seen[i.ID] = struct{}{}
		out = append(out, i)
	}
	return out
}

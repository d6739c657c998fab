package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
)

// IngredientRepo is the interface for ingredient repository operations.
//
// Every returned entity is a copy; mutating it never affects the stored one.
type IngredientRepo interface {
	Insert(ctx context.Context, ingredient models.Ingredient) (*models.Ingredient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	GetAll(ctx context.Context) ([]models.Ingredient, error)
	// GetAllByID returns the ingredients in request order, or a MissingIDsError
	// naming every requested ID that does not exist.
	GetAllByID(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error)
	Update(ctx context.Context, id uuid.UUID, changeset models.IngredientChangeset) (*models.Ingredient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecipeRepo is the interface for recipe repository operations.
type RecipeRepo interface {
	Insert(ctx context.Context, recipe models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetAll(ctx context.Context) ([]models.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, changeset models.RecipeChangeset) (*models.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddIngredient(ctx context.Context, recipeID uuid.UUID, ingredient models.IngredientWithAmount) (*models.Recipe, error)
	// RemoveIngredient fails with a models.ValidationError when it would leave
	// the recipe without ingredients.
	RemoveIngredient(ctx context.Context, recipeID, ingredientID uuid.UUID) (*models.Recipe, error)
}

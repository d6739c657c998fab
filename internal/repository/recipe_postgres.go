package repository

import (
	"context"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recipeColumns = "id, name, description, time, servings"

type recipeRow struct {
	ID          uuid.UUID
	Name        string
	Description string
	Time        models.RecipeTime `gorm:"type:jsonb"`
	Servings    models.Servings   `gorm:"type:jsonb"`
}

type stepRow struct {
	RecipeID     uuid.UUID
	Position     int
	Instructions string
}

// recipeIngredientRow is an ingredients_in_recipes row joined with its ingredient.
type recipeIngredientRow struct {
	RecipeID     uuid.UUID
	IngredientID uuid.UUID
	Position     int
	Amount       models.IngredientUnit `gorm:"type:jsonb"`
	Optional     bool
	Notes        *string
	Name         string
	Description  string
	DietFriendly pq.StringArray `gorm:"type:text[]"`
}

// PostgresRecipeRepository is a repository for interacting with recipes in Postgres.
type PostgresRecipeRepository struct {
	DB *gorm.DB
}

// NewPostgresRecipeRepository creates a new PostgresRecipeRepository.
func NewPostgresRecipeRepository(db *gorm.DB) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{DB: db}
}

// Insert creates a recipe together with its steps and ingredient amounts.
func (r *PostgresRecipeRepository) Insert(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"INSERT INTO recipes ("+recipeColumns+") VALUES (?, ?, ?, ?, ?)",
			recipe.ID, recipe.Name, recipe.Description, recipe.Time, recipe.Servings,
		).Error
		if err != nil {
			return mapWriteError(recipeEntity, err)
		}
		if err := insertSteps(tx, recipe.ID, recipe.Steps.Items()); err != nil {
			return err
		}
		for pos, ing := range recipe.Ingredients.Items() {
			if err := insertRecipeIngredient(tx, recipe.ID, pos, ing); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Get().Warn("failed to insert recipe", zap.String("recipe_id", recipe.ID.String()), zap.Error(err))
		return nil, asRepositoryError(err)
	}

	out := recipe.Clone()
	return &out, nil
}

// GetByID retrieves a recipe by its ID.
func (r *PostgresRecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	return r.loadOne(r.DB.WithContext(ctx), id, false)
}

// GetAll returns every recipe, oldest first.
func (r *PostgresRecipeRepository) GetAll(ctx context.Context) ([]models.Recipe, error) {
	return r.load(r.DB.WithContext(ctx), "SELECT "+recipeColumns+" FROM recipes ORDER BY id")
}

// Update applies the changeset inside a transaction, writing only the fields that differ.
func (r *PostgresRecipeRepository) Update(ctx context.Context, id uuid.UUID, changeset models.RecipeChangeset) (*models.Recipe, error) {
	if changeset.IsEmpty() {
		return nil, ErrEmptyChangeset
	}

	var out *models.Recipe
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.loadOne(tx, id, true)
		if err != nil {
			return err
		}

		changed := false
		set := func(column string, value interface{}) error {
			changed = true
			if err := tx.Exec("UPDATE recipes SET "+column+" = ? WHERE id = ?", value, id).Error; err != nil {
				return mapWriteError(recipeEntity, err)
			}
			return nil
		}

		if changeset.Name != nil && *changeset.Name != current.Name {
			if err := set("name", *changeset.Name); err != nil {
				return err
			}
		}
		if changeset.Description != nil && *changeset.Description != current.Description {
			if err := set("description", *changeset.Description); err != nil {
				return err
			}
		}
		if changeset.Time != nil && !maps.Equal(*changeset.Time, current.Time) {
			if err := set("time", *changeset.Time); err != nil {
				return err
			}
		}
		if changeset.Servings != nil && *changeset.Servings != current.Servings {
			if err := set("servings", *changeset.Servings); err != nil {
				return err
			}
		}
		if changeset.Steps != nil && !slices.Equal(changeset.Steps.Items(), current.Steps.Items()) {
			changed = true
			if err := tx.Exec("DELETE FROM recipe_steps WHERE recipe_id = ?", id).Error; err != nil {
				return UnknownError{Err: err}
			}
			if err := insertSteps(tx, id, changeset.Steps.Items()); err != nil {
				return err
			}
		}

		if !changed {
			out = current
			return nil
		}
		out, err = r.loadOne(tx, id, false)
		return err
	})
	if err != nil {
		return nil, asRepositoryError(err)
	}
	return out, nil
}

// Delete removes a recipe. Its steps and ingredient amounts go with it.
func (r *PostgresRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB.WithContext(ctx).Exec("DELETE FROM recipes WHERE id = ?", id)
	if result.Error != nil {
		return mapWriteError(recipeEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundError{Entity: recipeEntity, ID: id}
	}
	return nil
}

// AddIngredient appends an ingredient to the recipe's ingredient list.
func (r *PostgresRecipeRepository) AddIngredient(ctx context.Context, recipeID uuid.UUID, ingredient models.IngredientWithAmount) (*models.Recipe, error) {
	var out *models.Recipe
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.loadOne(tx, recipeID, true)
		if err != nil {
			return err
		}
		if current.HasIngredient(ingredient.Ingredient.ID) {
			return ConflictError{Entity: recipeEntity, Field: "ingredient"}
		}
		var position int
		err = tx.Raw(
			"SELECT COALESCE(MAX(position) + 1, 0) FROM ingredients_in_recipes WHERE recipe_id = ?", recipeID,
		).Scan(&position).Error
		if err != nil {
			return UnknownError{Err: err}
		}
		if err := insertRecipeIngredient(tx, recipeID, position, ingredient); err != nil {
			return err
		}
		out, err = r.loadOne(tx, recipeID, false)
		return err
	})
	if err != nil {
		return nil, asRepositoryError(err)
	}
	return out, nil
}

// RemoveIngredient drops an ingredient from the recipe's ingredient list.
func (r *PostgresRecipeRepository) RemoveIngredient(ctx context.Context, recipeID, ingredientID uuid.UUID) (*models.Recipe, error) {
	var out *models.Recipe
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.loadOne(tx, recipeID, true)
		if err != nil {
			return err
		}
		if !current.HasIngredient(ingredientID) {
			return NotFoundError{Entity: ingredientEntity, ID: ingredientID}
		}
		if current.Ingredients.Len() == 1 {
			return models.ValidationError{Field: "ingredients", Reason: "must contain at least one item"}
		}
		err = tx.Exec(
			"DELETE FROM ingredients_in_recipes WHERE recipe_id = ? AND ingredient_id = ?", recipeID, ingredientID,
		).Error
		if err != nil {
			return UnknownError{Err: err}
		}
		out, err = r.loadOne(tx, recipeID, false)
		return err
	})
	if err != nil {
		return nil, asRepositoryError(err)
	}
	return out, nil
}

// loadOne reads a single recipe, optionally locking its row for the rest of the transaction.
func (r *PostgresRecipeRepository) loadOne(tx *gorm.DB, id uuid.UUID, lock bool) (*models.Recipe, error) {
	query := "SELECT " + recipeColumns + " FROM recipes WHERE id = ?"
	if lock {
		query += " FOR UPDATE"
	}
	recipes, err := r.load(tx, query, id)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, NotFoundError{Entity: recipeEntity, ID: id}
	}
	return &recipes[0], nil
}

// load runs a query over the recipes table and attaches steps and ingredients
// to every returned row, keeping the query's order.
func (r *PostgresRecipeRepository) load(tx *gorm.DB, query string, args ...interface{}) ([]models.Recipe, error) {
	var rows []recipeRow
	if err := tx.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, UnknownError{Err: err}
	}
	if len(rows) == 0 {
		return []models.Recipe{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var steps []stepRow
	err := tx.Raw(
		"SELECT recipe_id, position, instructions FROM recipe_steps WHERE recipe_id = ANY(?::uuid[]) ORDER BY recipe_id, position",
		uuidArray(ids),
	).Scan(&steps).Error
	if err != nil {
		return nil, UnknownError{Err: err}
	}

	var ingredients []recipeIngredientRow
	err = tx.Raw(
		`SELECT iir.recipe_id, iir.ingredient_id, iir.position, iir.amount, iir.optional, iir.notes,
		i.name, i.description, i.diet_friendly
		FROM ingredients_in_recipes iir
		JOIN ingredients i ON i.id = iir.ingredient_id
		WHERE iir.recipe_id = ANY(?::uuid[])
		ORDER BY iir.recipe_id, iir.position`,
		uuidArray(ids),
	).Scan(&ingredients).Error
	if err != nil {
		return nil, UnknownError{Err: err}
	}

	stepsByRecipe := make(map[uuid.UUID][]string, len(rows))
	for _, s := range steps {
		stepsByRecipe[s.RecipeID] = append(stepsByRecipe[s.RecipeID], s.Instructions)
	}
	ingredientsByRecipe := make(map[uuid.UUID][]models.IngredientWithAmount, len(rows))
	for _, row := range ingredients {
		ing, err := models.NewIngredient(row.IngredientID, row.Name, row.Description, row.DietFriendly)
		if err != nil {
			return nil, UnknownError{Err: err}
		}
		ingredientsByRecipe[row.RecipeID] = append(ingredientsByRecipe[row.RecipeID], models.IngredientWithAmount{
			Ingredient: ing,
			Amount:     row.Amount,
			Optional:   row.Optional,
			Notes:      row.Notes,
		})
	}

	out := make([]models.Recipe, 0, len(rows))
	for _, row := range rows {
		recipe, err := models.NewRecipe(
			row.ID, row.Name, row.Description,
			stepsByRecipe[row.ID], ingredientsByRecipe[row.ID],
			row.Time, row.Servings,
		)
		if err != nil {
			logger.Get().Error("stored recipe is invalid", zap.String("recipe_id", row.ID.String()), zap.Error(err))
			return nil, UnknownError{Err: err}
		}
		out = append(out, recipe)
	}
	return out, nil
}

func insertSteps(tx *gorm.DB, recipeID uuid.UUID, steps []string) error {
	for pos, step := range steps {
		err := tx.Exec(
			"INSERT INTO recipe_steps (recipe_id, position, instructions) VALUES (?, ?, ?)", recipeID, pos, step,
		).Error
		if err != nil {
			return mapWriteError(recipeEntity, err)
		}
	}
	return nil
}

func insertRecipeIngredient(tx *gorm.DB, recipeID uuid.UUID, position int, ing models.IngredientWithAmount) error {
	err := tx.Exec(
		"INSERT INTO ingredients_in_recipes (recipe_id, ingredient_id, position, amount, optional, notes) VALUES (?, ?, ?, ?, ?, ?)",
		recipeID, ing.Ingredient.ID, position, ing.Amount, ing.Optional, ing.Notes,
	).Error
	if err != nil {
		return mapWriteError(recipeEntity, err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ingredientColumns = "id, name, description, diet_friendly"

// ingredientRow is the ingredients table as stored.
type ingredientRow struct {
	ID           uuid.UUID
	Name         string
	Description  string
	DietFriendly pq.StringArray `gorm:"type:text[]"`
}

func (row ingredientRow) toModel() (models.Ingredient, error) {
	i, err := models.NewIngredient(row.ID, row.Name, row.Description, row.DietFriendly)
	if err != nil {
		return models.Ingredient{}, UnknownError{Err: err}
	}
	return i, nil
}

// PostgresIngredientRepository is a repository for interacting with ingredients in Postgres.
type PostgresIngredientRepository struct {
	DB *gorm.DB
}

// NewPostgresIngredientRepository creates a new PostgresIngredientRepository.
func NewPostgresIngredientRepository(db *gorm.DB) *PostgresIngredientRepository {
	return &PostgresIngredientRepository{DB: db}
}

// Insert creates a new ingredient.
func (r *PostgresIngredientRepository) Insert(ctx context.Context, ingredient models.Ingredient) (*models.Ingredient, error) {
	var row ingredientRow
	err := r.DB.WithContext(ctx).Raw(
		"INSERT INTO ingredients ("+ingredientColumns+") VALUES (?, ?, ?, ?) RETURNING "+ingredientColumns,
		ingredient.ID, string(ingredient.Name), string(ingredient.Description), pq.StringArray(ingredient.DietFriendly.Strings()),
	).Scan(&row).Error
	if err != nil {
		logger.Get().Warn("failed to insert ingredient", zap.String("ingredient_id", ingredient.ID.String()), zap.Error(err))
		return nil, mapWriteError(ingredientEntity, err)
	}

	out, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves an ingredient by its ID.
func (r *PostgresIngredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var row ingredientRow
	result := r.DB.WithContext(ctx).Raw("SELECT "+ingredientColumns+" FROM ingredients WHERE id = ?", id).Scan(&row)
	if result.Error != nil {
		return nil, UnknownError{Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, NotFoundError{Entity: ingredientEntity, ID: id}
	}

	out, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAll returns every ingredient ordered by name.
func (r *PostgresIngredientRepository) GetAll(ctx context.Context) ([]models.Ingredient, error) {
	var rows []ingredientRow
	if err := r.DB.WithContext(ctx).Raw("SELECT " + ingredientColumns + " FROM ingredients ORDER BY name, id").Scan(&rows).Error; err != nil {
		return nil, UnknownError{Err: err}
	}
	return rowsToIngredients(rows)
}

// GetAllByID returns the requested ingredients in request order.
func (r *PostgresIngredientRepository) GetAllByID(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error) {
	var rows []ingredientRow
	err := r.DB.WithContext(ctx).Raw(
		"SELECT "+ingredientColumns+" FROM ingredients WHERE id = ANY(?::uuid[])", uuidArray(ids),
	).Scan(&rows).Error
	if err != nil {
		return nil, UnknownError{Err: err}
	}

	byID := make(map[uuid.UUID]ingredientRow, len(rows))
	found := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
		found[row.ID] = struct{}{}
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, MissingIDsError{Entity: ingredientEntity, IDs: missing}
	}

	ordered := make([]ingredientRow, 0, len(byID))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
			delete(byID, id)
		}
	}
	return rowsToIngredients(ordered)
}

// Update applies the changeset inside a transaction. Only fields whose value
// differs from the stored one are written.
func (r *PostgresIngredientRepository) Update(ctx context.Context, id uuid.UUID, changeset models.IngredientChangeset) (*models.Ingredient, error) {
	if changeset.IsEmpty() {
		return nil, ErrEmptyChangeset
	}

	var latest ingredientRow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Raw("SELECT "+ingredientColumns+" FROM ingredients WHERE id = ? FOR UPDATE", id).Scan(&latest)
		if result.Error != nil {
			return UnknownError{Err: result.Error}
		}
		if result.RowsAffected == 0 {
			return NotFoundError{Entity: ingredientEntity, ID: id}
		}

		if changeset.Name != nil && string(*changeset.Name) != latest.Name {
			if err := setIngredientColumn(tx, &latest, "name", string(*changeset.Name)); err != nil {
				return err
			}
		}
		if changeset.Description != nil && string(*changeset.Description) != latest.Description {
			if err := setIngredientColumn(tx, &latest, "description", string(*changeset.Description)); err != nil {
				return err
			}
		}
		if changeset.DietFriendly != nil {
			current, err := models.NewWhichDiets(latest.DietFriendly)
			if err != nil {
				return UnknownError{Err: err}
			}
			if !current.Equal(*changeset.DietFriendly) {
				if err := setIngredientColumn(tx, &latest, "diet_friendly", pq.StringArray(changeset.DietFriendly.Strings())); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, asRepositoryError(err)
	}

	out, err := latest.toModel()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// setIngredientColumn writes one column and replaces row with what the UPDATE returned.
// column is always one of the fixed names above, never user input.
func setIngredientColumn(tx *gorm.DB, row *ingredientRow, column string, value interface{}) error {
	var updated ingredientRow
	err := tx.Raw(
		"UPDATE ingredients SET "+column+" = ? WHERE id = ? RETURNING "+ingredientColumns, value, row.ID,
	).Scan(&updated).Error
	if err != nil {
		logger.Get().Warn("failed to update ingredient", zap.String("ingredient_id", row.ID.String()), zap.String("column", column), zap.Error(err))
		return mapWriteError(ingredientEntity, err)
	}
	*row = updated
	return nil
}

// Delete removes an ingredient. Ingredients still used by a recipe cannot be deleted.
func (r *PostgresIngredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB.WithContext(ctx).Exec("DELETE FROM ingredients WHERE id = ?", id)
	if result.Error != nil {
		return mapWriteError(ingredientEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundError{Entity: ingredientEntity, ID: id}
	}
	return nil
}

func rowsToIngredients(rows []ingredientRow) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0, len(rows))
	for _, row := range rows {
		i, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func uuidArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

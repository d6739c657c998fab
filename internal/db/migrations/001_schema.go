package migrations

import (
	"fmt"

	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// schema creates the catalogue tables. Constraint names are referenced by the
// repositories when they translate violations into field conflicts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ingredients (
		id UUID NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		diet_friendly TEXT[] NOT NULL DEFAULT '{}',
		CONSTRAINT ingredients_pkey PRIMARY KEY (id),
		CONSTRAINT ingredients_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id UUID NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		time JSONB NOT NULL DEFAULT '{}',
		servings JSONB NOT NULL,
		CONSTRAINT recipes_pkey PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS recipe_steps (
		recipe_id UUID NOT NULL,
		position INTEGER NOT NULL,
		instructions TEXT NOT NULL,
		CONSTRAINT recipe_steps_pkey PRIMARY KEY (recipe_id, position),
		CONSTRAINT recipe_steps_recipe_id_fkey FOREIGN KEY (recipe_id)
			REFERENCES recipes (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients_in_recipes (
		recipe_id UUID NOT NULL,
		ingredient_id UUID NOT NULL,
		position INTEGER NOT NULL,
		amount JSONB NOT NULL,
		optional BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT,
		CONSTRAINT ingredients_in_recipes_pkey PRIMARY KEY (recipe_id, ingredient_id),
		CONSTRAINT ingredients_in_recipes_recipe_id_fkey FOREIGN KEY (recipe_id)
			REFERENCES recipes (id) ON DELETE CASCADE,
		CONSTRAINT ingredients_in_recipes_ingredient_id_fkey FOREIGN KEY (ingredient_id)
			REFERENCES ingredients (id) ON DELETE RESTRICT
	)`,
	`CREATE INDEX IF NOT EXISTS ingredients_in_recipes_ingredient_id_idx
		ON ingredients_in_recipes (ingredient_id)`,
}

// EnsureSchema creates any missing catalogue tables. It is safe to run on
// every start.
func EnsureSchema(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		for i, stmt := range schema {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Info("database schema ready", zap.Int("statements", len(schema)))
	return nil
}

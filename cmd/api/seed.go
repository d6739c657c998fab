package main

import (
	"context"
	"fmt"

	"github.com/zbigniewzolnierowicz/recipes-api/internal/config"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
	"go.uber.org/zap"
)

// seedIngredients creates every seed ingredient. Names that already exist are
// skipped so restarting against a populated database is harmless.
func seedIngredients(ctx context.Context, svc *service.IngredientService, seed *config.Seed) (int, error) {
	created := 0
	for _, s := range seed.Ingredients {
		_, err := svc.CreateIngredient(ctx, service.CreateIngredientRequest{
			Name:         s.Name,
			Description:  s.Description,
			DietFriendly: s.DietFriendly,
		})
		switch {
		case err == nil:
			created++
		case service.KindOf(err) == service.KindConflict:
			logger.Get().Debug("seed ingredient already exists", zap.String("name", s.Name))
		default:
			return created, fmt.Errorf("seed ingredient %q: %w", s.Name, err)
		}
	}
	return created, nil
}

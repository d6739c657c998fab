package main

import (
	"context"
	"testing"

	"github.com/zbigniewzolnierowicz/recipes-api/internal/config"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/testutil"
)

func TestSeedIngredients_SkipsExisting(t *testing.T) {
	repo := testutil.NewMockIngredientRepo(testutil.Tomato())
	svc := service.NewIngredientService(repo, nil)
	seed := &config.Seed{Ingredients: []config.SeedIngredient{
		{Name: "Tomato", Description: "Again"},
		{Name: "Salt", Description: "Mineral", DietFriendly: []string{"vegan"}},
	}}

	created, err := seedIngredients(context.Background(), svc, seed)
	if err != nil {
		t.Fatalf("seedIngredients: %v", err)
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
}

func TestSeedIngredients_InvalidEntry(t *testing.T) {
	svc := service.NewIngredientService(testutil.NewMockIngredientRepo(), nil)
	seed := &config.Seed{Ingredients: []config.SeedIngredient{
		{Name: "Salt", Description: "Mineral", DietFriendly: []string{"carnivore"}},
	}}

	if _, err := seedIngredients(context.Background(), svc, seed); err == nil {
		t.Error("seedIngredients() = nil error for an unknown diet")
	}
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/repository"
	"go.uber.org/zap"
)

// RecipeService is the business logic layer for recipe-related operations.
type RecipeService struct {
	Repo        repository.RecipeRepo
	Ingredients repository.IngredientRepo
	Events      Publisher
}

// NewRecipeService is the constructor function for initializing a new RecipeService.
// events may be nil.
func NewRecipeService(repo repository.RecipeRepo, ingredients repository.IngredientRepo, events Publisher) *RecipeService {
	return &RecipeService{
		Repo:        repo,
		Ingredients: ingredients,
		Events:      events,
	}
}

// CreateRecipe resolves every referenced ingredient in one lookup and stores
// the recipe. Nothing is written when an ingredient is missing.
func (s *RecipeService) CreateRecipe(ctx context.Context, req CreateRecipeRequest) (*RecipeResponse, error) {
	const op = "create recipe"

	ids := make([]uuid.UUID, len(req.Ingredients))
	for i, item := range req.Ingredients {
		ids[i] = item.IngredientID
	}
	found, err := s.Ingredients.GetAllByID(ctx, ids)
	if err != nil {
		return nil, wrap(op, err)
	}

	byID := make(map[uuid.UUID]models.Ingredient, len(found))
	for _, ingredient := range found {
		byID[ingredient.ID] = ingredient
	}
	ingredients := make([]models.IngredientWithAmount, len(req.Ingredients))
	for i, item := range req.Ingredients {
		withAmount, err := toIngredientWithAmount(byID[item.IngredientID], item)
		if err != nil {
			return nil, wrap(op, err)
		}
		ingredients[i] = withAmount
	}

	servings, err := req.Servings.toModel()
	if err != nil {
		return nil, wrap(op, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, wrap(op, err)
	}
	phases, err := secondsToPhases(req.Time)
	if err != nil {
		return nil, wrap(op, err)
	}
	recipe, err := models.NewRecipe(id, req.Name, req.Description, req.Steps, ingredients, phases, servings)
	if err != nil {
		return nil, wrap(op, err)
	}

	created, err := s.Repo.Insert(ctx, recipe)
	if err != nil {
		return nil, wrap(op, err)
	}

	logger.Get().Info("recipe created", zap.String("recipe_id", created.ID.String()), zap.Int("ingredients", created.Ingredients.Len()))
	resp := ToRecipeResponse(*created)
	publish(s.Events, TopicRecipes, EventRecipeCreated, resp)
	return &resp, nil
}

// GetRecipe retrieves a recipe by its ID.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*RecipeResponse, error) {
	recipe, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("get recipe", err)
	}
	resp := ToRecipeResponse(*recipe)
	return &resp, nil
}

// GetAllRecipes returns every recipe.
func (s *RecipeService) GetAllRecipes(ctx context.Context) ([]RecipeResponse, error) {
	recipes, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, wrap("get all recipes", err)
	}

	out := make([]RecipeResponse, len(recipes))
	for i, recipe := range recipes {
		out[i] = ToRecipeResponse(recipe)
	}
	return out, nil
}

// UpdateRecipe validates every present field and applies them to the recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req UpdateRecipeRequest) (*RecipeResponse, error) {
	const op = "update recipe"

	var servings *models.Servings
	if req.Servings != nil {
		sv, err := req.Servings.toModel()
		if err != nil {
			return nil, wrap(op, err)
		}
		servings = &sv
	}
	var phases *map[string]time.Duration
	if req.Time != nil {
		p, err := secondsToPhases(*req.Time)
		if err != nil {
			return nil, wrap(op, err)
		}
		phases = &p
	}

	changeset, err := models.NewRecipeChangeset(req.Name, req.Description, req.Steps, phases, servings)
	if err != nil {
		return nil, wrap(op, err)
	}

	updated, err := s.Repo.Update(ctx, id, changeset)
	if err != nil {
		return nil, wrap(op, err)
	}

	resp := ToRecipeResponse(*updated)
	publish(s.Events, TopicRecipes, EventRecipeUpdated, resp)
	return &resp, nil
}

// DeleteRecipe removes a recipe.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return wrap("delete recipe", err)
	}

	logger.Get().Info("recipe deleted", zap.String("recipe_id", id.String()))
	publish(s.Events, TopicRecipes, EventRecipeDeleted, DeletedPayload{ID: id.String()})
	return nil
}

// AddIngredientToRecipe adds an existing ingredient to a recipe.
func (s *RecipeService) AddIngredientToRecipe(ctx context.Context, recipeID uuid.UUID, req RecipeIngredientRequest) (*RecipeResponse, error) {
	const op = "add ingredient to recipe"

	found, err := s.Ingredients.GetAllByID(ctx, []uuid.UUID{req.IngredientID})
	if err != nil {
		return nil, wrap(op, err)
	}
	withAmount, err := toIngredientWithAmount(found[0], req)
	if err != nil {
		return nil, wrap(op, err)
	}

	updated, err := s.Repo.AddIngredient(ctx, recipeID, withAmount)
	if err != nil {
		return nil, wrap(op, err)
	}

	resp := ToRecipeResponse(*updated)
	publish(s.Events, TopicRecipes, EventRecipeUpdated, resp)
	return &resp, nil
}

// RemoveIngredientFromRecipe drops an ingredient from a recipe. The last ingredient cannot be removed.
func (s *RecipeService) RemoveIngredientFromRecipe(ctx context.Context, recipeID, ingredientID uuid.UUID) (*RecipeResponse, error) {
	updated, err := s.Repo.RemoveIngredient(ctx, recipeID, ingredientID)
	if err != nil {
		return nil, wrap("remove ingredient from recipe", err)
	}

	resp := ToRecipeResponse(*updated)
	publish(s.Events, TopicRecipes, EventRecipeUpdated, resp)
	return &resp, nil
}

func toIngredientWithAmount(ingredient models.Ingredient, req RecipeIngredientRequest) (models.IngredientWithAmount, error) {
	amount, err := models.NewIngredientUnit(req.Amount.Unit, req.Amount.Amount)
	if err != nil {
		return models.IngredientWithAmount{}, err
	}
	return models.IngredientWithAmount{
		Ingredient: ingredient,
		Amount:     amount,
		Optional:   req.Optional,
		Notes:      req.Notes,
	}, nil
}

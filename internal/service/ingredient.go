package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/repository"
	"go.uber.org/zap"
)

// IngredientService is the business logic layer for ingredient-related operations.
type IngredientService struct {
	Repo   repository.IngredientRepo
	Events Publisher
}

// NewIngredientService is the constructor function for initializing a new IngredientService.
// events may be nil.
func NewIngredientService(repo repository.IngredientRepo, events Publisher) *IngredientService {
	return &IngredientService{
		Repo:   repo,
		Events: events,
	}
}

// CreateIngredient validates the request and stores a new ingredient.
func (s *IngredientService) CreateIngredient(ctx context.Context, req CreateIngredientRequest) (*IngredientResponse, error) {
	const op = "create ingredient"

	id, err := uuid.NewV7()
	if err != nil {
		return nil, wrap(op, err)
	}
	ingredient, err := models.NewIngredient(id, req.Name, req.Description, req.DietFriendly)
	if err != nil {
		return nil, wrap(op, err)
	}

	created, err := s.Repo.Insert(ctx, ingredient)
	if err != nil {
		return nil, wrap(op, err)
	}

	logger.Get().Info("ingredient created", zap.String("ingredient_id", created.ID.String()), zap.String("name", string(created.Name)))
	resp := ToIngredientResponse(*created)
	publish(s.Events, TopicIngredients, EventIngredientCreated, resp)
	return &resp, nil
}

// GetIngredient retrieves an ingredient by its ID.
func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*IngredientResponse, error) {
	ingredient, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("get ingredient", err)
	}
	resp := ToIngredientResponse(*ingredient)
	return &resp, nil
}

// GetAllIngredients returns every ingredient. An empty store yields an empty, non-nil slice.
func (s *IngredientService) GetAllIngredients(ctx context.Context) ([]IngredientResponse, error) {
	ingredients, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, wrap("get all ingredients", err)
	}

	out := make([]IngredientResponse, len(ingredients))
	for i, ingredient := range ingredients {
		out[i] = ToIngredientResponse(ingredient)
	}
	return out, nil
}

// UpdateIngredient validates every present field and applies them to the ingredient.
func (s *IngredientService) UpdateIngredient(ctx context.Context, id uuid.UUID, req UpdateIngredientRequest) (*IngredientResponse, error) {
	const op = "update ingredient"

	changeset, err := models.NewIngredientChangeset(req.Name, req.Description, req.DietFriendly)
	if err != nil {
		return nil, wrap(op, err)
	}

	updated, err := s.Repo.Update(ctx, id, changeset)
	if err != nil {
		return nil, wrap(op, err)
	}

	resp := ToIngredientResponse(*updated)
	publish(s.Events, TopicIngredients, EventIngredientUpdated, resp)
	return &resp, nil
}

// DeleteIngredient removes an ingredient.
func (s *IngredientService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return wrap("delete ingredient", err)
	}

	logger.Get().Info("ingredient deleted", zap.String("ingredient_id", id.String()))
	publish(s.Events, TopicIngredients, EventIngredientDeleted, DeletedPayload{ID: id.String()})
	return nil
}

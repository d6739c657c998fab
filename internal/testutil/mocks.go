package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/repository"
)

// --- MockIngredientRepo ---

// MockIngredientRepo wraps the in-memory repository with error overrides and write counters.
type MockIngredientRepo struct {
	*repository.InMemoryIngredientRepository

	mu      sync.Mutex
	Inserts int
	Updates int
	Deletes int

	// Error overrides: set these to force specific methods to return errors.
	InsertErr     error
	GetByIDErr    error
	GetAllErr     error
	GetAllByIDErr error
	UpdateErr     error
	DeleteErr     error
}

// NewMockIngredientRepo creates a new MockIngredientRepo holding the given ingredients.
func NewMockIngredientRepo(seed ...models.Ingredient) *MockIngredientRepo {
	return &MockIngredientRepo{InMemoryIngredientRepository: repository.NewInMemoryIngredientRepository(seed...)}
}

func (m *MockIngredientRepo) Insert(ctx context.Context, ingredient models.Ingredient) (*models.Ingredient, error) {
	m.mu.Lock()
	m.Inserts++
	m.mu.Unlock()
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	return m.InMemoryIngredientRepository.Insert(ctx, ingredient)
}

func (m *MockIngredientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	return m.InMemoryIngredientRepository.GetByID(ctx, id)
}

func (m *MockIngredientRepo) GetAll(ctx context.Context) ([]models.Ingredient, error) {
	if m.GetAllErr != nil {
		return nil, m.GetAllErr
	}
	return m.InMemoryIngredientRepository.GetAll(ctx)
}

func (m *MockIngredientRepo) GetAllByID(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error) {
	if m.GetAllByIDErr != nil {
		return nil, m.GetAllByIDErr
	}
	return m.InMemoryIngredientRepository.GetAllByID(ctx, ids)
}

func (m *MockIngredientRepo) Update(ctx context.Context, id uuid.UUID, changeset models.IngredientChangeset) (*models.Ingredient, error) {
	m.mu.Lock()
	m.Updates++
	m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	return m.InMemoryIngredientRepository.Update(ctx, id, changeset)
}

func (m *MockIngredientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	m.Deletes++
	m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.InMemoryIngredientRepository.Delete(ctx, id)
}

// --- MockRecipeRepo ---

// MockRecipeRepo wraps the in-memory repository with error overrides and write counters.
type MockRecipeRepo struct {
	*repository.InMemoryRecipeRepository

	mu      sync.Mutex
	Inserts int

	// Error overrides: set these to force specific methods to return errors.
	InsertErr  error
	GetByIDErr error
	GetAllErr  error
	UpdateErr  error
	DeleteErr  error
}

// NewMockRecipeRepo creates a new MockRecipeRepo holding the given recipes.
func NewMockRecipeRepo(seed ...models.Recipe) *MockRecipeRepo {
	return &MockRecipeRepo{InMemoryRecipeRepository: repository.NewInMemoryRecipeRepository(seed...)}
}

func (m *MockRecipeRepo) Insert(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	m.mu.Lock()
	m.Inserts++
	m.mu.Unlock()
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	return m.InMemoryRecipeRepository.Insert(ctx, recipe)
}

func (m *MockRecipeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	return m.InMemoryRecipeRepository.GetByID(ctx, id)
}

func (m *MockRecipeRepo) GetAll(ctx context.Context) ([]models.Recipe, error) {
	if m.GetAllErr != nil {
		return nil, m.GetAllErr
	}
	return m.InMemoryRecipeRepository.GetAll(ctx)
}

func (m *MockRecipeRepo) Update(ctx context.Context, id uuid.UUID, changeset models.RecipeChangeset) (*models.Recipe, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	return m.InMemoryRecipeRepository.Update(ctx, id, changeset)
}

func (m *MockRecipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.InMemoryRecipeRepository.Delete(ctx, id)
}

// --- MockPublisher ---

// Event is a change event captured by MockPublisher.
type Event struct {
	Topic   string
	Type    string
	Payload interface{}
}

// MockPublisher records every published event.
type MockPublisher struct {
	mu     sync.Mutex
	Events []Event
}

func (m *MockPublisher) Publish(topic, eventType string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, Event{Topic: topic, Type: eventType, Payload: payload})
}

// Types returns the type of every recorded event in order.
func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Type
	}
	return out
}

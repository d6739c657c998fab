package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
)

// IngredientHandler is the handler for ingredient-related requests.
type IngredientHandler struct {
	Service *service.IngredientService
}

// NewIngredientHandler is the constructor function for initializing a new IngredientHandler.
func NewIngredientHandler(ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{Service: ingredientService}
}

// ListIngredients returns every ingredient.
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.Service.GetAllIngredients(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list ingredients", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

// GetIngredient returns an ingredient by ID.
func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseUUIDParam(c, "ingredient_id")
	if !ok {
		return
	}

	ingredient, err := h.Service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to get ingredient", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredient": ingredient})
}

// CreateIngredient creates a new ingredient.
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req service.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ingredient, err := h.Service.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		respondError(c, "failed to create ingredient", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ingredient": ingredient})
}

// UpdateIngredient applies a partial update to an ingredient.
func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := parseUUIDParam(c, "ingredient_id")
	if !ok {
		return
	}

	var req service.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ingredient, err := h.Service.UpdateIngredient(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "failed to update ingredient", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredient": ingredient})
}

// DeleteIngredient deletes an ingredient.
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseUUIDParam(c, "ingredient_id")
	if !ok {
		return
	}

	if err := h.Service.DeleteIngredient(c.Request.Context(), id); err != nil {
		respondError(c, "failed to delete ingredient", err)
		return
	}

	c.Status(http.StatusNoContent)
}

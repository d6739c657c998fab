package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
)

// RecipeHandler is the handler for recipe-related requests.
type RecipeHandler struct {
	Service *service.RecipeService
}

// NewRecipeHandler is the constructor function for initializing a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{Service: recipeService}
}

// ListRecipes returns every recipe.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.Service.GetAllRecipes(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list recipes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns a recipe by ID.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseUUIDParam(c, "recipe_id")
	if !ok {
		return
	}

	recipe, err := h.Service.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to get recipe", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// CreateRecipe creates a recipe from existing ingredients.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req service.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.Service.CreateRecipe(c.Request.Context(), req)
	if err != nil {
		respondError(c, "failed to create recipe", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// UpdateRecipe applies a partial update to a recipe.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseUUIDParam(c, "recipe_id")
	if !ok {
		return
	}

	var req service.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.Service.UpdateRecipe(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "failed to update recipe", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// DeleteRecipe deletes a recipe.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseUUIDParam(c, "recipe_id")
	if !ok {
		return
	}

	if err := h.Service.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, "failed to delete recipe", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddRecipeIngredient adds an existing ingredient to a recipe.
func (h *RecipeHandler) AddRecipeIngredient(c *gin.Context) {
	id, ok := parseUUIDParam(c, "recipe_id")
	if !ok {
		return
	}

	var req service.RecipeIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.Service.AddIngredientToRecipe(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "failed to add ingredient to recipe", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// RemoveRecipeIngredient removes an ingredient from a recipe.
func (h *RecipeHandler) RemoveRecipeIngredient(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "recipe_id")
	if !ok {
		return
	}
	ingredientID, ok := parseUUIDParam(c, "ingredient_id")
	if !ok {
		return
	}

	recipe, err := h.Service.RemoveIngredientFromRecipe(c.Request.Context(), recipeID, ingredientID)
	if err != nil {
		respondError(c, "failed to remove ingredient from recipe", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

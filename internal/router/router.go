package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/config"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/handlers"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/middleware"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/ws"
)

const (
	rateLimitCleanup    = 1 * time.Minute
	rateLimitExpiration = 3 * time.Minute
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, ingredientService *service.IngredientService, recipeService *service.RecipeService, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.EnvVars.CorsAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.EnvVars.CorsAllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders("Authorization", logger.RequestIDHeader)
	corsConfig.AddExposeHeaders(logger.RequestIDHeader)
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	eventsHandler := ws.NewEventsHandler(hub, cfg.EnvVars.CorsAllowedOrigins)

	api := r.Group("/v1")
	api.Use(middleware.RateLimitByIP(cfg.EnvVars.RateLimitRPS, rateLimitCleanup, rateLimitExpiration))
	{
		api.GET("/ingredients", ingredientHandler.ListIngredients)
		api.GET("/ingredients/:ingredient_id", ingredientHandler.GetIngredient)

		api.GET("/recipes", recipeHandler.ListRecipes)
		api.GET("/recipes/:recipe_id", recipeHandler.GetRecipe)

		// Change feed
		api.GET("/ws/events", eventsHandler.HandleEvents)
	}

	// Mutating routes
	writes := api.Group("")
	writes.Use(middleware.RequireWriteToken(cfg), middleware.RequireJSON())
	{
		writes.POST("/ingredients", ingredientHandler.CreateIngredient)
		writes.PATCH("/ingredients/:ingredient_id", ingredientHandler.UpdateIngredient)
		writes.DELETE("/ingredients/:ingredient_id", ingredientHandler.DeleteIngredient)

		writes.POST("/recipes", recipeHandler.CreateRecipe)
		writes.PATCH("/recipes/:recipe_id", recipeHandler.UpdateRecipe)
		writes.DELETE("/recipes/:recipe_id", recipeHandler.DeleteRecipe)
		writes.POST("/recipes/:recipe_id/ingredients", recipeHandler.AddRecipeIngredient)
		writes.DELETE("/recipes/:recipe_id/ingredients/:ingredient_id", recipeHandler.RemoveRecipeIngredient)
	}

	return r
}

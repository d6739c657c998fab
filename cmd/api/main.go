package main

import (
	"context"
	"os"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/config"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/db"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/repository"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/router"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/ws"
	"go.uber.org/zap"
)

// init is called before the main function.
func init() {
	// Initialize structured logger (dev mode if GIN_MODE != release)
	isDev := os.Getenv("GIN_MODE") != "release"
	logger.Init(isDev)

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the API.
func main() {
	defer logger.Sync()

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Get().Fatal("invalid config", zap.Error(err))
	}

	// Load the seed catalogue from YAML
	if cfg.EnvVars.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.EnvVars.SeedFile)
		if err != nil {
			logger.Get().Fatal("failed to load seed", zap.Error(err))
		}
		cfg.Seed = seed
	}

	// Pick the storage backend
	var (
		ingredientRepo repository.IngredientRepo
		recipeRepo     repository.RecipeRepo
	)
	switch cfg.EnvVars.StorageBackend {
	case config.BackendMemory:
		ingredientRepo = repository.NewInMemoryIngredientRepository()
		recipeRepo = repository.NewInMemoryRecipeRepository()
	default:
		database, err := db.New(cfg)
		if err != nil {
			logger.Get().Fatal("failed to connect to database", zap.Error(err))
		}
		sqlDB, err := database.DB()
		if err != nil {
			logger.Get().Fatal("failed to get underlying sql.DB", zap.Error(err))
		}
		defer sqlDB.Close()

		ingredientRepo = repository.NewPostgresIngredientRepository(database)
		recipeRepo = repository.NewPostgresRecipeRepository(database)
	}
	logger.Get().Info("storage ready", zap.String("backend", cfg.EnvVars.StorageBackend))

	// Change feed
	hub := ws.NewHub()
	go hub.Run()

	ingredientService := service.NewIngredientService(ingredientRepo, hub)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo, hub)

	if cfg.Seed != nil {
		created, err := seedIngredients(context.Background(), ingredientService, cfg.Seed)
		if err != nil {
			logger.Get().Fatal("failed to seed ingredients", zap.Error(err))
		}
		logger.Get().Info("seeded ingredients", zap.Int("created", created))
	}

	// Create a new gin router
	gin.SetMode(cfg.EnvVars.GinMode)
	r := router.SetupRouter(cfg, ingredientService, recipeService, hub)

	// Run the server
	logger.Get().Info("starting server", zap.String("port", cfg.EnvVars.Port))
	if err := r.Run(":" + cfg.EnvVars.Port); err != nil {
		logger.Get().Error("server stopped", zap.Error(err))
	}
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}

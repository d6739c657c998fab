package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/models"
)

// Fixed IDs so test output is stable.
var (
	TomatoID = uuid.MustParse("0190a0a0-0000-7000-8000-000000000001")
	BasilID  = uuid.MustParse("0190a0a0-0000-7000-8000-000000000002")
	SaladID  = uuid.MustParse("0190a0a0-0000-7000-8000-000000000010")
)

// Tomato creates a vegan, vegetarian test ingredient.
func Tomato() models.Ingredient {
	i, err := models.NewIngredient(TomatoID, "Tomato", "Red and juicy", []string{"vegan", "vegetarian"})
	if err != nil {
		panic(err)
	}
	return i
}

// Basil creates a test ingredient suitable for every diet.
func Basil() models.Ingredient {
	i, err := models.NewIngredient(BasilID, "Basil", "Fresh herb", []string{"vegan", "vegetarian", "gluten_free"})
	if err != nil {
		panic(err)
	}
	return i
}

// Salad creates a test recipe using the given ingredients, 50 grams each.
func Salad(ingredients ...models.Ingredient) models.Recipe {
	amount, err := models.NewIngredientUnit("grams", 50)
	if err != nil {
		panic(err)
	}
	items := make([]models.IngredientWithAmount, len(ingredients))
	for i, ing := range ingredients {
		items[i] = models.IngredientWithAmount{Ingredient: ing, Amount: amount}
	}
	servings, err := models.ServingsRange(1, 2)
	if err != nil {
		panic(err)
	}
	r, err := models.NewRecipe(
		SaladID, "Caprese", "Tomato and basil salad",
		[]string{"Slice the tomatoes", "Add basil"},
		items,
		map[string]time.Duration{"prep": 10 * time.Minute},
		servings,
	)
	if err != nil {
		panic(err)
	}
	return r
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/repository"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/testutil"
)

func newRecipeRouter(recipes *testutil.MockRecipeRepo, ingredients *testutil.MockIngredientRepo) *gin.Engine {
	handler := NewRecipeHandler(service.NewRecipeService(recipes, ingredients, nil))

	r := gin.New()
	r.GET("/recipes", handler.ListRecipes)
	r.GET("/recipes/:recipe_id", handler.GetRecipe)
	r.POST("/recipes", handler.CreateRecipe)
	r.PATCH("/recipes/:recipe_id", handler.UpdateRecipe)
	r.DELETE("/recipes/:recipe_id", handler.DeleteRecipe)
	r.POST("/recipes/:recipe_id/ingredients", handler.AddRecipeIngredient)
	r.DELETE("/recipes/:recipe_id/ingredients/:ingredient_id", handler.RemoveRecipeIngredient)
	return r
}

func TestCreateRecipe_Created(t *testing.T) {
	r := newRecipeRouter(testutil.NewMockRecipeRepo(), testutil.NewMockIngredientRepo(testutil.Tomato()))

	body := `{
		"name": "Tomato soup",
		"description": "Warm",
		"steps": ["mix"],
		"ingredients": [{"ingredient_id": "` + testutil.TomatoID.String() + `", "amount": {"unit": "grams", "amount": 1}}],
		"time": {"cook": 900},
		"servings": {"from_to": [1, 2]}
	}`
	w := doJSON(r, "POST", "/recipes", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Recipe service.RecipeResponse `json:"recipe"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Recipe.Name != "Tomato soup" {
		t.Errorf("name = %q, want 'Tomato soup'", resp.Recipe.Name)
	}
	if resp.Recipe.Time["cook"] != 900 {
		t.Errorf("time = %v, want cook 900", resp.Recipe.Time)
	}
}

func TestCreateRecipe_MissingIngredient(t *testing.T) {
	recipes := testutil.NewMockRecipeRepo()
	r := newRecipeRouter(recipes, testutil.NewMockIngredientRepo())

	body := `{"name":"Soup","description":"Warm","steps":["mix"],
		"ingredients":[{"ingredient_id":"` + testutil.TomatoID.String() + `","amount":{"unit":"grams","amount":1}}],
		"servings":{"exact":2}}`
	w := doJSON(r, "POST", "/recipes", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), testutil.TomatoID.String()) {
		t.Errorf("body = %s, want the missing id", w.Body.String())
	}
	if recipes.Inserts != 0 {
		t.Errorf("Inserts = %d, want 0", recipes.Inserts)
	}
}

func TestGetRecipe_InvalidID(t *testing.T) {
	r := newRecipeRouter(testutil.NewMockRecipeRepo(), testutil.NewMockIngredientRepo())

	if w := doJSON(r, "GET", "/recipes/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGetRecipe_Found(t *testing.T) {
	r := newRecipeRouter(testutil.NewMockRecipeRepo(testutil.Salad(testutil.Tomato())), testutil.NewMockIngredientRepo())

	w := doJSON(r, "GET", "/recipes/"+testutil.SaladID.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"name":"Caprese"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestListRecipes_RepoFailure(t *testing.T) {
	recipes := testutil.NewMockRecipeRepo()
	recipes.GetAllErr = repository.UnknownError{Err: errors.New("lock poisoned")}
	r := newRecipeRouter(recipes, testutil.NewMockIngredientRepo())

	w := doJSON(r, "GET", "/recipes", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "poisoned") {
		t.Errorf("body = %s leaks the internal cause", w.Body.String())
	}
}

func TestUpdateRecipe_NotFound(t *testing.T) {
	r := newRecipeRouter(testutil.NewMockRecipeRepo(), testutil.NewMockIngredientRepo())

	w := doJSON(r, "PATCH", "/recipes/"+testutil.SaladID.String(), `{"name":"Soup"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestRecipeIngredientRoutes(t *testing.T) {
	r := newRecipeRouter(
		testutil.NewMockRecipeRepo(testutil.Salad(testutil.Tomato())),
		testutil.NewMockIngredientRepo(testutil.Tomato(), testutil.Basil()),
	)
	base := "/recipes/" + testutil.SaladID.String() + "/ingredients"

	w := doJSON(r, "POST", base, `{"ingredient_id":"`+testutil.BasilID.String()+`","amount":{"unit":"pieces","amount":4},"optional":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	w = doJSON(r, "DELETE", base+"/"+testutil.TomatoID.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	w = doJSON(r, "DELETE", base+"/"+testutil.BasilID.String(), "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("remove last status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeleteRecipe_NoContent(t *testing.T) {
	r := newRecipeRouter(testutil.NewMockRecipeRepo(testutil.Salad(testutil.Tomato())), testutil.NewMockIngredientRepo())

	if w := doJSON(r, "DELETE", "/recipes/"+testutil.SaladID.String(), ""); w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

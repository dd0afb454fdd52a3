package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

// ListRecipes handles GET /api/recipes.
func (h *Handlers) ListRecipes(c *gin.Context) {
	ac := h.authContext(c)

	recipes, err := h.store.ListRecipes(c.Request.Context(), h.scopeHousehold(ac))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, recipes)
}

// GetRecipe handles GET /api/recipes/:id.
func (h *Handlers) GetRecipe(c *gin.Context) {
	recipe, err := h.store.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, storeError(err, "Recipe not found"))
		return
	}

	if !h.authorize(c, recipe.HouseholdID) {
		return
	}

	response.OK(c, http.StatusOK, recipe)
}

type createRecipeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Calories     int      `json:"calories"`
}

// CreateRecipe handles POST /api/recipes.
func (h *Handlers) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	ac := h.authContext(c)
	recipe := &store.Recipe{
		ID:           uuid.NewString(),
		HouseholdID:  ac.HouseholdID,
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Calories:     req.Calories,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.CreateRecipe(c.Request.Context(), recipe); err != nil {
		response.Error(c, storeError(err, "Recipe not found"))
		return
	}

	response.OK(c, http.StatusCreated, recipe)
}

// DeleteRecipe handles DELETE /api/recipes?id=<id>.
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	id, ok := requireQueryID(c)
	if !ok {
		return
	}

	recipe, err := h.store.GetRecipe(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, "Recipe not found"))
		return
	}

	if !h.authorize(c, recipe.HouseholdID) {
		return
	}

	if err := h.store.DeleteRecipe(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, "Recipe not found"))
		return
	}

	response.Message(c, http.StatusOK, "Recipe deleted successfully")
}

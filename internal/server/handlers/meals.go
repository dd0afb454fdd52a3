package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

// ListMeals handles GET /api/meals?personId=<id>.
func (h *Handlers) ListMeals(c *gin.Context) {
	personID := c.Query("personId")
	if personID != "" && h.resolvePerson(c, personID) == nil {
		return
	}

	ac := h.authContext(c)
	meals, err := h.store.ListMeals(c.Request.Context(), h.scopeHousehold(ac), personID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, meals)
}

type createMealRequest struct {
	PersonID string    `json:"personId" binding:"required"`
	Name     string    `json:"name" binding:"required"`
	Calories int       `json:"calories"`
	ProteinG float64   `json:"proteinG"`
	CarbsG   float64   `json:"carbsG"`
	FatG     float64   `json:"fatG"`
	LoggedAt time.Time `json:"loggedAt"`
}

// CreateMeal handles POST /api/meals.
func (h *Handlers) CreateMeal(c *gin.Context) {
	var req createMealRequest
	if !bindJSON(c, &req) {
		return
	}

	person := h.resolvePerson(c, req.PersonID)
	if person == nil {
		return
	}

	loggedAt := req.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}

	meal := &store.Meal{
		ID:          uuid.NewString(),
		PersonID:    person.ID,
		HouseholdID: person.HouseholdID,
		Name:        req.Name,
		Calories:    req.Calories,
		ProteinG:    req.ProteinG,
		CarbsG:      req.CarbsG,
		FatG:        req.FatG,
		LoggedAt:    loggedAt,
	}

	if err := h.store.CreateMeal(c.Request.Context(), meal); err != nil {
		response.Error(c, storeError(err, "Meal not found"))
		return
	}

	response.OK(c, http.StatusCreated, meal)
}

// DeleteMeal handles DELETE /api/meals?id=<id>.
func (h *Handlers) DeleteMeal(c *gin.Context) {
	id, ok := requireQueryID(c)
	if !ok {
		return
	}

	meal, err := h.store.GetMeal(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, "Meal not found"))
		return
	}
	if !h.authorize(c, meal.HouseholdID) {
		return
	}

	if err := h.store.DeleteMeal(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, "Meal not found"))
		return
	}

	response.Message(c, http.StatusOK, "Meal deleted successfully")
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

// ListWeights handles GET /api/weights?personId=<id>.
func (h *Handlers) ListWeights(c *gin.Context) {
	personID := c.Query("personId")
	if personID != "" && h.resolvePerson(c, personID) == nil {
		return
	}

	ac := h.authContext(c)
	weights, err := h.store.ListWeights(c.Request.Context(), h.scopeHousehold(ac), personID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, weights)
}

type createWeightRequest struct {
	PersonID string    `json:"personId" binding:"required"`
	WeightKg float64   `json:"weightKg" binding:"required"`
	LoggedAt time.Time `json:"loggedAt"`
}

// CreateWeight handles POST /api/weights.
func (h *Handlers) CreateWeight(c *gin.Context) {
	var req createWeightRequest
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

	entry := &store.WeightEntry{
		ID:          uuid.NewString(),
		PersonID:    person.ID,
		HouseholdID: person.HouseholdID,
		WeightKg:    req.WeightKg,
		LoggedAt:    loggedAt,
	}

	if err := h.store.CreateWeight(c.Request.Context(), entry); err != nil {
		response.Error(c, storeError(err, "Weight entry not found"))
		return
	}

	response.OK(c, http.StatusCreated, entry)
}

// DeleteWeight handles DELETE /api/weights?id=<id>.
func (h *Handlers) DeleteWeight(c *gin.Context) {
	id, ok := requireQueryID(c)
	if !ok {
		return
	}

	entry, err := h.store.GetWeight(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, "Weight entry not found"))
		return
	}
	if !h.authorize(c, entry.HouseholdID) {
		return
	}

	if err := h.store.DeleteWeight(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, "Weight entry not found"))
		return
	}

	response.Message(c, http.StatusOK, "Weight entry deleted successfully")
}

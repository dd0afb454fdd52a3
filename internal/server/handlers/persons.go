package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

// ListPersons handles GET /api/persons.
func (h *Handlers) ListPersons(c *gin.Context) {
	ac := h.authContext(c)

	persons, err := h.store.ListPersons(c.Request.Context(), h.scopeHousehold(ac))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, persons)
}

type createPersonRequest struct {
	Name      string `json:"name" binding:"required"`
	BirthYear int    `json:"birthYear"`
}

// CreatePerson handles POST /api/persons.
func (h *Handlers) CreatePerson(c *gin.Context) {
	var req createPersonRequest
	if !bindJSON(c, &req) {
		return
	}

	ac := h.authContext(c)
	person := &store.Person{
		ID:          uuid.NewString(),
		HouseholdID: ac.HouseholdID,
		Name:        req.Name,
		BirthYear:   req.BirthYear,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.store.CreatePerson(c.Request.Context(), person); err != nil {
		response.Error(c, storeError(err, "Person not found"))
		return
	}

	response.OK(c, http.StatusCreated, person)
}

// DeletePerson handles DELETE /api/persons?id=<id>.
func (h *Handlers) DeletePerson(c *gin.Context) {
	id, ok := requireQueryID(c)
	if !ok {
		return
	}

	person, err := h.store.GetPerson(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, "Person not found"))
		return
	}

	if !h.authorize(c, person.HouseholdID) {
		return
	}

	if err := h.store.DeletePerson(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, "Person not found"))
		return
	}

	response.Message(c, http.StatusOK, "Person deleted successfully")
}

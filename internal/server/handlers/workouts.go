package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

// resolvePerson loads the person a log entry belongs to and checks the
// caller may act on it. Returns nil when the request has been rejected.
func (h *Handlers) resolvePerson(c *gin.Context, personID string) *store.Person {
	person, err := h.store.GetPerson(c.Request.Context(), personID)
	if err != nil {
		response.Error(c, storeError(err, "Person not found"))
		return nil
	}
	if !h.authorize(c, person.HouseholdID) {
		return nil
	}
	return person
}

// ListWorkouts handles GET /api/workouts?personId=<id>.
func (h *Handlers) ListWorkouts(c *gin.Context) {
	personID := c.Query("personId")
	if personID != "" && h.resolvePerson(c, personID) == nil {
		return
	}

	ac := h.authContext(c)
	workouts, err := h.store.ListWorkouts(c.Request.Context(), h.scopeHousehold(ac), personID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, workouts)
}

type createWorkoutRequest struct {
	PersonID    string    `json:"personId" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	DurationMin int       `json:"durationMin"`
	Calories    int       `json:"calories"`
	Notes       string    `json:"notes"`
	LoggedAt    time.Time `json:"loggedAt"`
}

// CreateWorkout handles POST /api/workouts.
func (h *Handlers) CreateWorkout(c *gin.Context) {
	var req createWorkoutRequest
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

	workout := &store.Workout{
		ID:          uuid.NewString(),
		PersonID:    person.ID,
		HouseholdID: person.HouseholdID,
		Type:        req.Type,
		DurationMin: req.DurationMin,
		Calories:    req.Calories,
		Notes:       req.Notes,
		LoggedAt:    loggedAt,
	}

	if err := h.store.CreateWorkout(c.Request.Context(), workout); err != nil {
		response.Error(c, storeError(err, "Workout not found"))
		return
	}

	response.OK(c, http.StatusCreated, workout)
}

// DeleteWorkout handles DELETE /api/workouts?id=<id>.
func (h *Handlers) DeleteWorkout(c *gin.Context) {
	id, ok := requireQueryID(c)
	if !ok {
		return
	}

	workout, err := h.store.GetWorkout(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, "Workout not found"))
		return
	}
	if !h.authorize(c, workout.HouseholdID) {
		return
	}

	if err := h.store.DeleteWorkout(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, "Workout not found"))
		return
	}

	response.Message(c, http.StatusOK, "Workout deleted successfully")
}

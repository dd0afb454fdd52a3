package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

// ListPantry handles GET /api/pantry.
func (h *Handlers) ListPantry(c *gin.Context) {
	ac := h.authContext(c)

	items, err := h.store.ListPantry(c.Request.Context(), h.scopeHousehold(ac))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, items)
}

type pantryItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Barcode  string  `json:"barcode"`
}

// CreatePantryItem handles POST /api/pantry.
func (h *Handlers) CreatePantryItem(c *gin.Context) {
	var req pantryItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ac := h.authContext(c)
	item := &store.PantryItem{
		ID:          uuid.NewString(),
		HouseholdID: ac.HouseholdID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Barcode:     req.Barcode,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := h.store.CreatePantryItem(c.Request.Context(), item); err != nil {
		response.Error(c, storeError(err, "Pantry item not found"))
		return
	}

	response.OK(c, http.StatusCreated, item)
}

// UpdatePantryItem handles PUT /api/pantry?id=<id>.
func (h *Handlers) UpdatePantryItem(c *gin.Context) {
	id, ok := requireQueryID(c)
	if !ok {
		return
	}

	var req pantryItemRequest
	if !bindJSON(c, &req) {
		return
	}

	existing, err := h.store.GetPantryItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, "Pantry item not found"))
		return
	}
	if !h.authorize(c, existing.HouseholdID) {
		return
	}

	item := &store.PantryItem{
		ID:          id,
		HouseholdID: existing.HouseholdID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Barcode:     req.Barcode,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := h.store.UpdatePantryItem(c.Request.Context(), item); err != nil {
		response.Error(c, storeError(err, "Pantry item not found"))
		return
	}

	response.OK(c, http.StatusOK, item)
}

// DeletePantryItem handles DELETE /api/pantry?id=<id>.
func (h *Handlers) DeletePantryItem(c *gin.Context) {
	id, ok := requireQueryID(c)
	if !ok {
		return
	}

	item, err := h.store.GetPantryItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, "Pantry item not found"))
		return
	}
	if !h.authorize(c, item.HouseholdID) {
		return
	}

	if err := h.store.DeletePantryItem(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, "Pantry item not found"))
		return
	}

	response.Message(c, http.StatusOK, "Pantry item deleted successfully")
}

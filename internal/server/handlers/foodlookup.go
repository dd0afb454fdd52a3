package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/foodlookup"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/server/response"
)

// FoodLookup handles GET /api/food-lookup?barcode=<code>.
func (h *Handlers) FoodLookup(c *gin.Context) {
	barcode := c.Query("barcode")
	if barcode == "" {
		response.Fail(c, http.StatusBadRequest, "barcode query parameter is required")
		return
	}

	if h.lookup == nil {
		response.Fail(c, http.StatusServiceUnavailable, "Food lookup is not configured")
		return
	}

	product, err := h.lookup.Lookup(c.Request.Context(), barcode)
	if err != nil {
		switch {
		case errors.Is(err, foodlookup.ErrNotFound):
			h.recordLookup("not_found")
			response.Fail(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, foodlookup.ErrUnavailable):
			h.recordLookup("unavailable")
			response.Fail(c, http.StatusServiceUnavailable, "Food lookup is temporarily unavailable")
		default:
			h.recordLookup("error")
			h.logger.WithContext(c.Request.Context()).Error("food lookup failed",
				observability.String("barcode", barcode),
				observability.Error(err))
			response.Error(c, err)
		}
		return
	}

	h.recordLookup("hit")
	response.OK(c, http.StatusOK, product)
}

func (h *Handlers) recordLookup(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLookup(outcome)
	}
}

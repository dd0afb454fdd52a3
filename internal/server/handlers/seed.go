package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/server/response"
)

// Seed handles POST /api/seed. Seeding is best-effort per table: a
// fully successful run answers 200, a partial failure answers 207
// with the per-table breakdown.
func (h *Handlers) Seed(c *gin.Context) {
	report, err := h.store.Seed(c.Request.Context())
	if err != nil {
		response.Error(c, storeError(err, "Seed data not found"))
		return
	}

	status := http.StatusOK
	if report.Failed() > 0 {
		status = http.StatusMultiStatus
		h.logger.WithContext(c.Request.Context()).Warn("seed completed with failures",
			observability.Int("failed_tables", report.Failed()))
	}

	response.OK(c, status, report)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/server/response"
)

// Health handles GET /healthz. It always answers 200 while the
// process is up.
func (h *Handlers) Health(c *gin.Context) {
	response.OK(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /readyz. It answers 200 only when the backend is
// reachable.
func (h *Handlers) Ready(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		response.Fail(c, http.StatusServiceUnavailable, "Backend unavailable")
		return
	}
	response.OK(c, http.StatusOK, gin.H{"status": "ready"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/server/response"
)

// CSRFToken handles GET /api/csrf. When the caller already holds a
// token cookie it is returned unchanged so concurrent tabs agree on
// one token; otherwise a fresh token is issued and set.
func (h *Handlers) CSRFToken(c *gin.Context) {
	token := h.csrf.TokenFromCookie(c.Request)
	if token == "" {
		issued, err := h.csrf.Issue()
		if err != nil {
			response.Error(c, err)
			return
		}
		token = issued
		h.csrf.SetCookie(c.Writer, token)
	}

	response.OK(c, http.StatusOK, gin.H{"csrfToken": token})
}

// Package handlers implements the API endpoints. Each handler assumes
// the middleware chain has already enforced CSRF, rate limits and
// authentication; resource-level authorization happens here because it
// needs the loaded record's household.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/apierr"
	"github.com/fittrack/fittrack/internal/auth"
	"github.com/fittrack/fittrack/internal/authz"
	"github.com/fittrack/fittrack/internal/csrf"
	"github.com/fittrack/fittrack/internal/foodlookup"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

// Handlers bundles the dependencies shared by all endpoints.
type Handlers struct {
	store      store.Store
	authorizer authz.Authorizer
	csrf       *csrf.Manager
	tokens     *auth.TokenIssuer
	lookup     *foodlookup.Client
	metrics    *observability.Metrics
	logger     observability.Logger
}

// New creates the handler set. tokens may be nil in demo mode and
// lookup may be nil when food lookup is disabled.
func New(
	st store.Store,
	authorizer authz.Authorizer,
	csrfManager *csrf.Manager,
	tokens *auth.TokenIssuer,
	lookup *foodlookup.Client,
	metrics *observability.Metrics,
	logger observability.Logger,
) *Handlers {
	return &Handlers{
		store:      st,
		authorizer: authorizer,
		csrf:       csrfManager,
		tokens:     tokens,
		lookup:     lookup,
		metrics:    metrics,
		logger:     logger,
	}
}

// authContext returns the authentication context placed on the request
// by the authentication middleware.
func (h *Handlers) authContext(c *gin.Context) *auth.Context {
	if ac, ok := auth.FromContext(c.Request.Context()); ok {
		return ac
	}
	return &auth.Context{}
}

// scopeHousehold returns the household filter for list queries. Demo
// and single-tenant callers see everything; multi-tenant callers see
// their own household only.
func (h *Handlers) scopeHousehold(ac *auth.Context) string {
	return ac.HouseholdID
}

// authorize checks that the caller may access a resource owned by the
// given household and writes a 403 if not. Returns false when the
// request has been rejected.
func (h *Handlers) authorize(c *gin.Context, ownerHouseholdID string) bool {
	ac := h.authContext(c)
	decision := h.authorizer.AuthorizePerson(c.Request.Context(), ac, ownerHouseholdID)
	if decision.Allowed {
		return true
	}

	if h.metrics != nil {
		h.metrics.RecordAuthFailure("authz")
	}
	response.Error(c, apierr.Authorization(decision.Reason))
	return false
}

// requireQueryID extracts the id query parameter, writing a 400 when
// it is absent. Returns false when the request has been rejected.
func requireQueryID(c *gin.Context) (string, bool) {
	id := c.Query("id")
	if id == "" {
		response.Fail(c, http.StatusBadRequest, "id query parameter is required")
		return "", false
	}
	return id, true
}

// bindJSON decodes the request body, writing a 400 on malformed input.
// Returns false when the request has been rejected.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// storeError maps persistence errors onto the API error taxonomy.
func storeError(err error, notFoundMessage string) *apierr.Error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apierr.NotFound(notFoundMessage)
	case errors.Is(err, store.ErrDemoMode):
		return apierr.Configuration("Demo mode: this operation is disabled")
	case errors.Is(err, store.ErrDuplicate):
		return apierr.Validation("Record already exists")
	default:
		return apierr.Unexpected(err)
	}
}

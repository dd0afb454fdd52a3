package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/auth"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/server/response"
	"github.com/fittrack/fittrack/internal/store"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	HouseholdID string `json:"householdId"`
}

// Signup handles POST /api/auth/signup. A new account gets its own
// household.
func (h *Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		response.Fail(c, http.StatusBadRequest, "Invalid email address")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			response.Fail(c, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		response.Error(c, err)
		return
	}

	user := &store.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		HouseholdID:  uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			response.Fail(c, http.StatusBadRequest, "Email already registered")
			return
		}
		response.Error(c, storeError(err, "User not found"))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.HouseholdID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, sessionResponse{
		Token:       token,
		UserID:      user.ID,
		HouseholdID: user.HouseholdID,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.store.UserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.loginRejected(c, email)
			return
		}
		response.Error(c, err)
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		h.loginRejected(c, email)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.HouseholdID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, sessionResponse{
		Token:       token,
		UserID:      user.ID,
		HouseholdID: user.HouseholdID,
	})
}

// loginRejected answers failed logins uniformly so responses do not
// reveal whether the account exists.
func (h *Handlers) loginRejected(c *gin.Context, email string) {
	if h.metrics != nil {
		h.metrics.RecordAuthFailure("authn")
	}
	h.logger.WithContext(c.Request.Context()).Warn("login rejected",
		observability.String("email", email))
	response.Fail(c, http.StatusUnauthorized, "Invalid email or password")
}

package handlers

import (
	"errors"
	"net/http"

	"threadboard/internal/metrics"
	"threadboard/internal/middleware"
	"threadboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	users   *services.IdentityService
	tokens  *services.TokenService
	metrics *metrics.Metrics
	log     *logrus.Logger
}

func NewAuthHandler(users *services.IdentityService, tokens *services.TokenService, m *metrics.Metrics, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, metrics: m, log: log}
}

type userView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Signup POST /users/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var in services.SignupInput
	if !bindJSON(c, &in) {
		return
	}
	if _, err := h.users.Signup(c.Request.Context(), in); err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.metrics.SignUps.Inc()
	Success(c, http.StatusOK, "User created successfully")
}

// Login POST /users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var creds services.Credentials
	if !bindJSON(c, &creds) {
		return
	}
	user, err := h.users.Authenticate(c.Request.Context(), creds)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	access, refresh, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	h.log.WithField("user_id", user.ID).Info("User logged in")
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          userView{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh POST /users/refresh
// The refresh token comes from the Authorization header or the refresh_token field.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := middleware.BearerToken(c.Request)
	if err != nil {
		var body refreshRequest
		_ = c.ShouldBindJSON(&body)
		raw = body.RefreshToken
	}
	if raw == "" {
		Error(c, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	identity, err := h.tokens.Parse(raw, services.RefreshToken)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	// The user may have been removed from the store since the token was issued.
	if _, err := h.users.FindByID(c.Request.Context(), identity.UserID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			Error(c, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		RespondError(c, h.log, err)
		return
	}

	access, err := h.tokens.Issue(identity.UserID, services.AccessToken)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

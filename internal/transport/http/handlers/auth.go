package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// AuthHandler exposes the role-scoped login endpoints and token refresh.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds login and refresh routes. The rate limiter guards
// the credential-accepting endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	login := r.Group("/login")
	if loginLimit != nil {
		login.Use(loginLimit)
	}
	login.POST("/visitor", h.visitorLogin)
	login.POST("/business", h.businessLogin)
	login.POST("/admin", h.adminLogin)

	r.POST("/token/refresh", h.refresh)
}

func (h *AuthHandler) visitorLogin(c *gin.Context) {
	req, ok := bindLogin(c)
	if !ok {
		return
	}

	pair, err := h.auth.VisitorLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenPairResponse(pair))
}

func (h *AuthHandler) businessLogin(c *gin.Context) {
	req, ok := bindLogin(c)
	if !ok {
		return
	}

	pair, err := h.auth.BusinessLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenPairResponse(pair))
}

func (h *AuthHandler) adminLogin(c *gin.Context) {
	req, ok := bindLogin(c)
	if !ok {
		return
	}

	pair, err := h.auth.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenPairResponse(pair))
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req TokenRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "refresh_token is required"))
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrStaleToken):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid or expired refresh token"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to refresh token"))
		}
		return
	}

	c.JSON(http.StatusOK, newTokenPairResponse(pair))
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	var banned *usecase.BannedError
	if errors.As(err, &banned) {
		c.JSON(http.StatusForbidden, BannedResponse{
			Error:         banned.Error(),
			RemainingDays: banned.RemainingDays,
			RequestID:     middleware.RequestIDFrom(c),
		})
		return
	}

	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		{Err: usecase.ErrNotAdmin, Status: http.StatusUnauthorized, Message: "invalid credentials or not an admin"},
		{Err: usecase.ErrNoSuchUser, Status: http.StatusBadRequest, Message: "no account registered with this email"},
		{Err: usecase.ErrNotVerified, Status: http.StatusForbidden, Message: "email address not verified"},
		{Err: usecase.ErrInactiveAccount, Status: http.StatusForbidden, Message: "account is not active"},
		{Err: usecase.ErrNotApproved, Status: http.StatusForbidden, Message: "business account awaiting approval"},
		{Err: usecase.ErrWrongRole, Status: http.StatusForbidden, Message: "wrong account type for this login"},
	}, http.StatusInternalServerError, "login failed")
}

func bindLogin(c *gin.Context) (LoginRequest, bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return LoginRequest{}, false
	}
	return req, true
}

func newTokenPairResponse(pair security.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	}
}

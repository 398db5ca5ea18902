package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// PasswordHandler exposes the forgot/reset password endpoints.
type PasswordHandler struct {
	resets *usecase.PasswordResetService
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(resets *usecase.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// RegisterRoutes binds the password recovery routes. The rate limiter
// guards the request endpoint against enumeration sweeps.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, resetLimit gin.HandlerFunc) {
	if resetLimit != nil {
		r.POST("/password/forgot", resetLimit, h.forgot)
	} else {
		r.POST("/password/forgot", h.forgot)
	}
	r.POST("/password/reset/:id/:token", h.reset)
}

func (h *PasswordHandler) forgot(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email is required"))
		return
	}

	if err := h.resets.RequestReset(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnknownEmail, Status: http.StatusNotFound, Message: "no account registered with this email"},
		}, http.StatusInternalServerError, "failed to request password reset")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password reset email sent"})
}

func (h *PasswordHandler) reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "password and password2 are required"))
		return
	}

	err := h.resets.ConfirmReset(c.Request.Context(), c.Param("id"), c.Param("token"), req.Password, req.Password2)
	if err != nil {
		var policy *security.PasswordValidationError
		if errors.As(err, &policy) {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, policy.Error()))
			return
		}

		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "passwords do not match"},
			{Err: usecase.ErrInvalidToken, Status: http.StatusBadRequest, Message: "invalid or expired reset token"},
		}, http.StatusInternalServerError, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

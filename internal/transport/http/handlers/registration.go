package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// RegistrationHandler exposes signup and email verification endpoints.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
	frontend     config.FrontendSettings
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registration *usecase.RegistrationService, frontend config.FrontendSettings) *RegistrationHandler {
	return &RegistrationHandler{registration: registration, frontend: frontend}
}

// RegisterRoutes binds registration routes.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register/visitor", h.registerVisitor)
	r.POST("/register/business", h.registerBusiness)
	r.GET("/verify-email/:id/:token", h.verifyEmail)
}

func (h *RegistrationHandler) registerVisitor(c *gin.Context) {
	var req VisitorRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.registration.RegisterVisitor(c.Request.Context(), usecase.VisitorRegistrationInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Password2: req.Password2,
		Phone:     req.Phone,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		h.respondRegistrationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserSummary(*user))
}

func (h *RegistrationHandler) registerBusiness(c *gin.Context) {
	var req BusinessRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.registration.RegisterBusiness(c.Request.Context(), usecase.BusinessRegistrationInput{
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		Password2:    req.Password2,
		BusinessName: req.BusinessName,
		Category:     req.Category,
		Description:  req.Description,
		Phone:        req.Phone,
		Location:     req.Location,
		InArea:       req.InArea,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.respondRegistrationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserSummary(*user))
}

// verifyEmail is opened from the link in the verification mail, so it
// answers with a redirect to the frontend rather than a JSON body.
func (h *RegistrationHandler) verifyEmail(c *gin.Context) {
	userID := c.Param("id")
	token := c.Param("token")

	if err := h.registration.VerifyEmail(c.Request.Context(), userID, token); err != nil {
		c.Redirect(http.StatusFound, h.frontend.VerifyFailedURL)
		return
	}

	c.Redirect(http.StatusFound, h.frontend.VerifySuccessURL)
}

func (h *RegistrationHandler) respondRegistrationError(c *gin.Context, err error) {
	var policy *security.PasswordValidationError
	if errors.As(err, &policy) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, policy.Error()))
		return
	}
	if errors.Is(err, usecase.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "email already registered"},
		{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "passwords do not match"},
		{Err: usecase.ErrLocationRejected, Status: http.StatusBadRequest, Message: "business location is outside the service area"},
	}, http.StatusInternalServerError, "failed to register")
}

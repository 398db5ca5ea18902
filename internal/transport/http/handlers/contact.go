package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// ContactHandler accepts messages to the site operators.
type ContactHandler struct {
	contacts *usecase.ContactService
	auth     *usecase.AuthService
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(contacts *usecase.ContactService, auth *usecase.AuthService) *ContactHandler {
	return &ContactHandler{contacts: contacts, auth: auth}
}

// RegisterRoutes binds the contact route.
func (h *ContactHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/contact", middleware.RequireAuth(h.auth), h.sendMessage)
}

func (h *ContactHandler) sendMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "subject and message are required"))
		return
	}

	msg, err := h.contacts.SendMessage(c.Request.Context(), middleware.CurrentUserID(c), req.Subject, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to send message"))
		return
	}

	c.JSON(http.StatusCreated, newContactMessageResponse(*msg))
}

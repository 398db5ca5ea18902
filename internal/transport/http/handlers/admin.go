package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// AdminHandler exposes the moderation surface: account lifecycle,
// business review, the report queue, and contact messages.
type AdminHandler struct {
	moderation *usecase.ModerationService
	posts      *usecase.PostService
	contacts   *usecase.ContactService
	auth       *usecase.AuthService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(
	moderation *usecase.ModerationService,
	posts *usecase.PostService,
	contacts *usecase.ContactService,
	auth *usecase.AuthService,
) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		posts:      posts,
		contacts:   contacts,
		auth:       auth,
	}
}

// RegisterRoutes binds the admin routes behind the admin role gate.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin", middleware.RequireAuth(h.auth), middleware.RequireRole(domain.RoleAdmin))

	admin.GET("/users", h.listUsers)
	admin.POST("/users/:id/ban", h.banUser)
	admin.POST("/users/:id/unban", h.unbanUser)
	admin.DELETE("/users/:id", h.deleteUser)

	admin.POST("/business/:id/approve", h.approveBusiness)
	admin.POST("/business/:id/decline", h.declineBusiness)

	admin.GET("/dashboard", h.dashboard)

	admin.GET("/reports", h.listReports)
	admin.POST("/reports/:id/dismiss", h.dismissReport)
	admin.POST("/reports/:id/resolve", h.resolveReport)

	admin.GET("/contact-messages", h.listContactMessages)
	admin.DELETE("/contact-messages/:id", h.deleteContactMessage)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	filter := port.UserFilter{
		Role:   domain.Role(c.Query("role")),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	users, err := h.moderation.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, newUserSummary(u))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) banUser(c *gin.Context) {
	until, err := h.moderation.BanUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondModerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, BanResponse{BannedUntil: until})
}

func (h *AdminHandler) unbanUser(c *gin.Context) {
	if err := h.moderation.UnbanUser(c.Request.Context(), c.Param("id")); err != nil {
		h.respondModerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user unbanned"})
}

func (h *AdminHandler) deleteUser(c *gin.Context) {
	if err := h.moderation.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.respondModerationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) approveBusiness(c *gin.Context) {
	if err := h.moderation.ApproveBusiness(c.Request.Context(), c.Param("id")); err != nil {
		h.respondModerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "business approved"})
}

func (h *AdminHandler) declineBusiness(c *gin.Context) {
	if err := h.moderation.DeclineBusiness(c.Request.Context(), c.Param("id")); err != nil {
		h.respondModerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "business declined"})
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	counters, err := h.moderation.Counters(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load dashboard counters"))
		return
	}

	c.JSON(http.StatusOK, counters)
}

func (h *AdminHandler) listReports(c *gin.Context) {
	reports, err := h.posts.ListReports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list reports"))
		return
	}

	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, newReportResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) dismissReport(c *gin.Context) {
	if err := h.posts.DismissReport(c.Request.Context(), c.Param("id")); err != nil {
		h.respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "report dismissed"})
}

func (h *AdminHandler) resolveReport(c *gin.Context) {
	if err := h.posts.ResolveReport(c.Request.Context(), c.Param("id")); err != nil {
		h.respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "report resolved, post removed"})
}

func (h *AdminHandler) listContactMessages(c *gin.Context) {
	messages, err := h.contacts.ListMessages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list contact messages"))
		return
	}

	out := make([]ContactMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, newContactMessageResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteContactMessage(c *gin.Context) {
	if err := h.contacts.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMessageNotFound, Status: http.StatusNotFound, Message: "contact message not found"},
		}, http.StatusInternalServerError, "failed to delete contact message")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) respondModerationError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	}, http.StatusInternalServerError, "moderation operation failed")
}

func (h *AdminHandler) respondReportError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrReportNotFound, Status: http.StatusNotFound, Message: "report not found"},
		{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
	}, http.StatusInternalServerError, "report operation failed")
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}

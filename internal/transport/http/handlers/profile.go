package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// ProfileHandler exposes profile management, the public business
// directory, and business galleries.
type ProfileHandler struct {
	profiles *usecase.ProfileService
	auth     *usecase.AuthService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles *usecase.ProfileService, auth *usecase.AuthService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, auth: auth}
}

// RegisterRoutes binds the profile and directory routes.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/businesses", h.listBusinesses)
	r.GET("/businesses/:id/gallery", h.listBusinessGallery)

	authed := r.Group("", middleware.RequireAuth(h.auth))

	visitor := authed.Group("/profile/visitor", middleware.RequireRole(domain.RoleVisitor))
	visitor.GET("", h.getVisitorProfile)
	visitor.PUT("", h.updateVisitorProfile)

	business := authed.Group("/profile/business", middleware.RequireRole(domain.RoleBusiness))
	business.GET("", h.getBusinessProfile)
	business.PUT("", h.updateBusinessProfile)
	business.GET("/gallery", h.listOwnGallery)
	business.POST("/gallery", h.addGalleryImage)
	business.DELETE("/gallery/:imageID", h.deleteGalleryImage)
}

func (h *ProfileHandler) getVisitorProfile(c *gin.Context) {
	profile, err := h.profiles.GetVisitorProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newVisitorProfileResponse(*profile))
}

func (h *ProfileHandler) updateVisitorProfile(c *gin.Context) {
	var req VisitorProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	profile, err := h.profiles.UpdateVisitorProfile(c.Request.Context(), middleware.CurrentUserID(c), usecase.VisitorProfileUpdate{
		PhoneNumber: req.PhoneNumber,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newVisitorProfileResponse(*profile))
}

func (h *ProfileHandler) getBusinessProfile(c *gin.Context) {
	profile, err := h.profiles.GetBusinessProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBusinessProfileResponse(*profile))
}

func (h *ProfileHandler) updateBusinessProfile(c *gin.Context) {
	var req BusinessProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	profile, err := h.profiles.UpdateBusinessProfile(c.Request.Context(), middleware.CurrentUserID(c), usecase.BusinessProfileUpdate{
		BusinessName: req.BusinessName,
		Category:     req.Category,
		Description:  req.Description,
		Phone:        req.Phone,
		Location:     req.Location,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBusinessProfileResponse(*profile))
}

// listBusinesses is the public directory of approved businesses, optionally
// narrowed by category.
func (h *ProfileHandler) listBusinesses(c *gin.Context) {
	businesses, err := h.profiles.ListBusinesses(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list businesses"))
		return
	}

	out := make([]BusinessProfileResponse, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, newBusinessProfileResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProfileHandler) listBusinessGallery(c *gin.Context) {
	images, err := h.profiles.ListGalleryByBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGalleryResponses(images))
}

func (h *ProfileHandler) listOwnGallery(c *gin.Context) {
	images, err := h.profiles.ListGallery(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGalleryResponses(images))
}

func (h *ProfileHandler) addGalleryImage(c *gin.Context) {
	var req GalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "image_url is required"))
		return
	}

	image, err := h.profiles.AddGalleryImage(c.Request.Context(), middleware.CurrentUserID(c), req.ImageURL)
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGalleryImageResponse(*image))
}

func (h *ProfileHandler) deleteGalleryImage(c *gin.Context) {
	err := h.profiles.DeleteGalleryImage(c.Request.Context(), middleware.CurrentUserID(c), c.Param("imageID"))
	if err != nil {
		h.respondProfileError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) respondProfileError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "profile not found"},
		{Err: usecase.ErrNotOwner, Status: http.StatusForbidden, Message: "not the owner of this resource"},
	}, http.StatusInternalServerError, "profile operation failed")
}

func newGalleryResponses(images []domain.GalleryImage) []GalleryImageResponse {
	out := make([]GalleryImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, newGalleryImageResponse(img))
	}
	return out
}

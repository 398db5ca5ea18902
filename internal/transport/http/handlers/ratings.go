package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// RatingsHandler exposes the rate-the-site endpoints.
type RatingsHandler struct {
	ratings *usecase.SiteRatingService
	auth    *usecase.AuthService
}

// NewRatingsHandler constructs RatingsHandler.
func NewRatingsHandler(ratings *usecase.SiteRatingService, auth *usecase.AuthService) *RatingsHandler {
	return &RatingsHandler{ratings: ratings, auth: auth}
}

// RegisterRoutes binds the site rating routes.
func (h *RatingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/site-ratings", h.listRatings)

	authed := r.Group("", middleware.RequireAuth(h.auth))
	authed.POST("/site-ratings", h.submitRating)
	authed.GET("/site-ratings/mine", h.ownRating)
	authed.DELETE("/site-ratings/:id", middleware.RequireRole(domain.RoleAdmin), h.deleteRating)
}

func (h *RatingsHandler) listRatings(c *gin.Context) {
	ratings, err := h.ratings.ListRatings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list site ratings"))
		return
	}

	c.JSON(http.StatusOK, newSiteRatingResponses(ratings))
}

func (h *RatingsHandler) submitRating(c *gin.Context) {
	var req SiteRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "rating is required"))
		return
	}

	rating, err := h.ratings.SubmitRating(c.Request.Context(), middleware.CurrentUserID(c), req.Rating, req.Comment)
	if err != nil {
		h.respondRatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSiteRatingResponse(*rating))
}

// ownRating answers 204 when the caller has not rated the site yet, so
// the frontend can tell "no rating" apart from an error.
func (h *RatingsHandler) ownRating(c *gin.Context) {
	rating, err := h.ratings.GetOwnRating(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, usecase.ErrRatingNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		h.respondRatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSiteRatingResponse(*rating))
}

func (h *RatingsHandler) deleteRating(c *gin.Context) {
	if err := h.ratings.DeleteRating(c.Request.Context(), c.Param("id")); err != nil {
		h.respondRatingError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RatingsHandler) respondRatingError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrInvalidRating, Status: http.StatusBadRequest, Message: "rating must be between 1 and 5"},
		{Err: usecase.ErrRatingNotFound, Status: http.StatusNotFound, Message: "site rating not found"},
	}, http.StatusInternalServerError, "site rating operation failed")
}

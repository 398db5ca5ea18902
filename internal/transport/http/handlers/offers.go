package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// OffersHandler exposes admin offer management, the public offer list,
// and visitor redemptions.
type OffersHandler struct {
	offers *usecase.OffersService
	auth   *usecase.AuthService
}

// NewOffersHandler constructs OffersHandler.
func NewOffersHandler(offers *usecase.OffersService, auth *usecase.AuthService) *OffersHandler {
	return &OffersHandler{offers: offers, auth: auth}
}

// RegisterRoutes binds the offers and redemption routes.
func (h *OffersHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/offers", h.listOffers)

	authed := r.Group("", middleware.RequireAuth(h.auth))

	admin := authed.Group("", middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/offers", h.createOffer)
	admin.PUT("/offers/:id", h.updateOffer)
	admin.DELETE("/offers/:id", h.deleteOffer)

	visitor := authed.Group("", middleware.RequireRole(domain.RoleVisitor))
	visitor.POST("/offers/:id/redeem", h.redeemOffer)
	visitor.GET("/offers/redemptions", h.listOwnRedemptions)
}

func (h *OffersHandler) listOffers(c *gin.Context) {
	views, err := h.offers.ListOffers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list offers"))
		return
	}

	c.JSON(http.StatusOK, newOfferResponses(views))
}

func (h *OffersHandler) createOffer(c *gin.Context) {
	req, ok := bindOffer(c)
	if !ok {
		return
	}

	offer, err := h.offers.CreateOffer(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		h.respondOfferError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newOfferResponse(usecase.OfferView{Offer: *offer}))
}

func (h *OffersHandler) updateOffer(c *gin.Context) {
	req, ok := bindOffer(c)
	if !ok {
		return
	}

	offer, err := h.offers.UpdateOffer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondOfferError(c, err)
		return
	}

	c.JSON(http.StatusOK, newOfferResponse(usecase.OfferView{Offer: *offer}))
}

func (h *OffersHandler) deleteOffer(c *gin.Context) {
	if err := h.offers.DeleteOffer(c.Request.Context(), c.Param("id")); err != nil {
		h.respondOfferError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *OffersHandler) redeemOffer(c *gin.Context) {
	redemption, err := h.offers.RedeemOffer(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.respondOfferError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRedemptionResponse(*redemption))
}

func (h *OffersHandler) listOwnRedemptions(c *gin.Context) {
	views, err := h.offers.ListOwnRedemptions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondOfferError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRedemptionItemResponses(views))
}

func bindOffer(c *gin.Context) (usecase.OfferInput, bool) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid offer payload"))
		return usecase.OfferInput{}, false
	}

	return usecase.OfferInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		BusinessID:  req.BusinessID,
		ImageURL:    req.ImageURL,
	}, true
}

func (h *OffersHandler) respondOfferError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrInvalidOffer, Status: http.StatusBadRequest, Message: "invalid offer data"},
		{Err: usecase.ErrOfferNotFound, Status: http.StatusNotFound, Message: "offer not found"},
		{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "business profile not found"},
	}, http.StatusInternalServerError, "offer operation failed")
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// SalesHandler exposes sale management for businesses and the public
// sale feed plus favorites for visitors.
type SalesHandler struct {
	sales *usecase.SalesService
	auth  *usecase.AuthService
}

// NewSalesHandler constructs SalesHandler.
func NewSalesHandler(sales *usecase.SalesService, auth *usecase.AuthService) *SalesHandler {
	return &SalesHandler{sales: sales, auth: auth}
}

// RegisterRoutes binds the sales and favorites routes.
func (h *SalesHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sales", h.listSales)

	authed := r.Group("", middleware.RequireAuth(h.auth))

	business := authed.Group("", middleware.RequireRole(domain.RoleBusiness))
	business.GET("/sales/mine", h.listOwnSales)
	business.POST("/sales", h.createSale)
	business.PUT("/sales/:id", h.updateSale)

	authed.DELETE("/sales/:id", middleware.RequireRole(domain.RoleBusiness, domain.RoleAdmin), h.deleteSale)

	visitor := authed.Group("", middleware.RequireRole(domain.RoleVisitor))
	visitor.GET("/favorites", h.listFavorites)
	visitor.POST("/favorites/:saleID", h.favoriteSale)
	visitor.DELETE("/favorites/:saleID", h.unfavoriteSale)
}

func (h *SalesHandler) listSales(c *gin.Context) {
	sales, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list sales"))
		return
	}

	c.JSON(http.StatusOK, newSaleResponses(sales))
}

func (h *SalesHandler) listOwnSales(c *gin.Context) {
	sales, err := h.sales.ListOwnSales(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondSaleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSaleResponses(sales))
}

func (h *SalesHandler) createSale(c *gin.Context) {
	req, ok := bindSale(c)
	if !ok {
		return
	}

	sale, err := h.sales.CreateSale(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		h.respondSaleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSaleResponse(*sale))
}

func (h *SalesHandler) updateSale(c *gin.Context) {
	req, ok := bindSale(c)
	if !ok {
		return
	}

	sale, err := h.sales.UpdateSale(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondSaleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSaleResponse(*sale))
}

func (h *SalesHandler) deleteSale(c *gin.Context) {
	err := h.sales.DeleteSale(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentRole(c), c.Param("id"))
	if err != nil {
		h.respondSaleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SalesHandler) listFavorites(c *gin.Context) {
	sales, err := h.sales.ListFavorites(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondSaleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSaleResponses(sales))
}

func (h *SalesHandler) favoriteSale(c *gin.Context) {
	err := h.sales.FavoriteSale(c.Request.Context(), middleware.CurrentUserID(c), c.Param("saleID"))
	if err != nil {
		h.respondSaleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "sale added to favorites"})
}

func (h *SalesHandler) unfavoriteSale(c *gin.Context) {
	err := h.sales.UnfavoriteSale(c.Request.Context(), middleware.CurrentUserID(c), c.Param("saleID"))
	if err != nil {
		h.respondSaleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SalesHandler) respondSaleError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrInvalidSale, Status: http.StatusBadRequest, Message: "invalid sale dates or title"},
		{Err: usecase.ErrSaleNotFound, Status: http.StatusNotFound, Message: "sale not found"},
		{Err: usecase.ErrFavoriteNotFound, Status: http.StatusNotFound, Message: "favorite not found"},
		{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "business profile not found"},
		{Err: usecase.ErrNotOwner, Status: http.StatusForbidden, Message: "not the owner of this sale"},
	}, http.StatusInternalServerError, "sale operation failed")
}

func bindSale(c *gin.Context) (usecase.SaleInput, bool) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "title, start_date, and end_date are required"))
		return usecase.SaleInput{}, false
	}

	return usecase.SaleInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ImageURL:    req.ImageURL,
	}, true
}

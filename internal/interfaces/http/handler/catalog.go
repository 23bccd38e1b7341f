package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CatalogHandler serves the product listing, product detail and categories
type CatalogHandler struct {
	BaseHandler
	catalogService *catalog.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProductsQuery holds the listing filters
type ListProductsQuery struct {
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category"`
}

// ListProducts godoc
// @Summary      Product listing
// @Tags         catalog
// @Produce      json
// @Param        search   query string false "Name contains"
// @Param        category query string false "Category ID"
// @Success      200 {object} dto.Response{data=catalog.ProductListing}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	listing, err := h.catalogService.ListProducts(c.Request.Context(), catalog.ListProductsInput{
		Search:     q.Search,
		CategoryID: q.Category,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}

// GetProduct godoc
// @Summary      Product detail
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalog.ProductCard}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.NotFound(c, catalog.ErrProductNotFound.Message)
		return
	}

	card, err := h.catalogService.GetProduct(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// ListCategories godoc
// @Summary      Categories ordered by name
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.CategoryDTO}
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

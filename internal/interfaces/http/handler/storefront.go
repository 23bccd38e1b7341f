package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/storefront"
)

// StorefrontHandler serves the store header and the home page
type StorefrontHandler struct {
	BaseHandler
	headerService  *storefront.HeaderService
	catalogService *catalog.CatalogService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(headerService *storefront.HeaderService, catalogService *catalog.CatalogService) *StorefrontHandler {
	return &StorefrontHandler{
		headerService:  headerService,
		catalogService: catalogService,
	}
}

// SearchResponse names the listing URL for a header search
type SearchResponse struct {
	Location string `json:"location"`
}

// Header godoc
// @Summary      Store header state
// @Tags         storefront
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.HeaderState}
// @Router       /storefront/header [get]
func (h *StorefrontHandler) Header(c *gin.Context) {
	h.Success(c, h.headerService.Header(c.Request.Context(), getViewer(c)))
}

// Search godoc
// @Summary      Resolve a header search into a listing URL
// @Tags         storefront
// @Param        q query string false "Search text"
// @Success      200 {object} dto.Response{data=SearchResponse}
// @Success      204
// @Router       /storefront/search [get]
func (h *StorefrontHandler) Search(c *gin.Context) {
	location := storefront.SearchRedirect(c.Query("q"))
	if location == "" {
		c.Status(http.StatusNoContent)
		return
	}
	h.Redirect(c, SearchResponse{Location: location}, location)
}

// Home godoc
// @Summary      Newest products for the home page
// @Tags         storefront
// @Produce      json
// @Success      200 {object} dto.Response{data=catalog.HomePage}
// @Router       /storefront/home [get]
func (h *StorefrontHandler) Home(c *gin.Context) {
	page, err := h.catalogService.Home(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

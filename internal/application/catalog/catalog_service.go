package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")

// ImageResolver turns a stored image reference into a displayable URL
type ImageResolver interface {
	ResolveImageURL(ctx context.Context, ref string) string
}

// SearchMetrics counts catalog searches. A nil SearchMetrics is allowed.
type SearchMetrics interface {
	RecordSearch(ctx context.Context)
}

// CatalogService builds the product listing, home and detail views
type CatalogService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	images       ImageResolver
	metrics      SearchMetrics
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	images ImageResolver,
	metrics SearchMetrics,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		metrics:      metrics,
		logger:       logger,
	}
}

// ListProducts returns active products filtered by name and category, newest first.
// The search term is used as given. A category that is not a valid id matches no
// products, and the page still renders with the category list.
func (s *CatalogService) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListing, error) {
	search := input.Search
	categoryParam := input.CategoryID

	query := catalog.ProductQuery{Search: search, ActiveOnly: true}
	var selected uuid.UUID
	matchNone := false
	if categoryParam != "" {
		id, err := uuid.Parse(categoryParam)
		if err != nil {
			s.logger.Debug("Category filter is not an id", zap.String("category", categoryParam))
			matchNone = true
		} else {
			selected = id
			query.CategoryID = &id
		}
	}

	products := []catalog.Product{}
	if !matchNone {
		var err error
		products, err = s.productRepo.List(ctx, query)
		if err != nil {
			s.logger.Error("Failed to list products", zap.String("search", search), zap.Error(err))
			return nil, shared.ErrUnknown
		}
	}

	categories, err := s.categoryRepo.FindAllOrderedByName(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, shared.ErrUnknown
	}

	if search != "" && s.metrics != nil {
		s.metrics.RecordSearch(ctx)
	}

	listing := &ProductListing{
		Title:      TitleAllProducts,
		CountLabel: fmt.Sprintf("%d products found", len(products)),
		Search:     search,
		CategoryID: categoryParam,
		Products:   s.toCards(ctx, products),
		Categories: make([]CategoryOption, 0, len(categories)),
	}
	if search != "" {
		listing.Title = TitleSearchResults
		listing.Subtitle = fmt.Sprintf(`Showing results for "%s"`, search)
	}
	for _, c := range categories {
		listing.Categories = append(listing.Categories, CategoryOption{
			ID:       c.ID,
			Name:     c.Name,
			Selected: c.ID == selected,
		})
	}
	if len(products) == 0 {
		listing.Empty = &EmptyState{Title: EmptyTitle, Hint: EmptyHintNoStock}
		if search != "" || categoryParam != "" {
			listing.Empty.Hint = EmptyHintFiltered
		}
	}
	return listing, nil
}

// Home returns the newest active products
func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	products, err := s.productRepo.List(ctx, catalog.ProductQuery{
		ActiveOnly: true,
		Limit:      catalog.FeaturedLimit,
	})
	if err != nil {
		s.logger.Error("Failed to load featured products", zap.Error(err))
		return nil, shared.ErrUnknown
	}
	return &HomePage{FeaturedProducts: s.toCards(ctx, products)}, nil
}

// GetProduct returns a single active product
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductCard, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		s.logger.Error("Failed to load product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, shared.ErrUnknown
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	card := s.toCard(ctx, product)
	return &card, nil
}

// ListCategories returns all categories ordered by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.categoryRepo.FindAllOrderedByName(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, shared.ErrUnknown
	}
	out := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		out[i] = CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	return out, nil
}

func (s *CatalogService) toCards(ctx context.Context, products []catalog.Product) []ProductCard {
	cards := make([]ProductCard, len(products))
	for i := range products {
		cards[i] = s.toCard(ctx, &products[i])
	}
	return cards
}

func (s *CatalogService) toCard(ctx context.Context, p *catalog.Product) ProductCard {
	card := NewProductCard(p)
	if card.ImageURL != "" && s.images != nil {
		card.ImageURL = s.images.ResolveImageURL(ctx, card.ImageURL)
		if card.ImageURL == "" {
			card.ImagePlaceholder = ImagePlaceholder
		}
	}
	return card
}

// NewProductCard maps a product to its card view model without resolving the image
func NewProductCard(p *catalog.Product) ProductCard {
	card := ProductCard{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		PriceLabel:        "$" + p.Price.StringFixed(2),
		StockQuantity:     p.StockQuantity,
		ImageURL:          p.ImageURL,
		CategoryName:      p.CategoryName(),
		Href:              fmt.Sprintf("/products/%s", p.ID),
		AddToCartDisabled: !p.InStock(),
	}

	switch p.StockLevel() {
	case catalog.StockLevelOut:
		card.StockBadge = BadgeOutOfStock
		card.StockText = "Out of stock"
	case catalog.StockLevelLow:
		card.StockBadge = fmt.Sprintf("Only %d left", p.StockQuantity)
		card.StockText = fmt.Sprintf("%d in stock", p.StockQuantity)
	default:
		card.StockText = fmt.Sprintf("%d in stock", p.StockQuantity)
	}

	if card.ImageURL == "" {
		card.ImagePlaceholder = ImagePlaceholder
	}
	return card
}

package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing copy
const (
	TitleAllProducts   = "Our Products"
	TitleSearchResults = "Search Results"
	EmptyTitle         = "No products found"
	EmptyHintFiltered  = "Try adjusting your search criteria or browse all products"
	EmptyHintNoStock   = "No products are currently available"
	ImagePlaceholder   = "No image"
	BadgeOutOfStock    = "Out of Stock"
)

// ListProductsInput carries the listing query parameters
type ListProductsInput struct {
	Search     string
	CategoryID string
}

// ProductCard is the view model of a product tile
type ProductCard struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	PriceLabel        string          `json:"price_label"`
	StockQuantity     int             `json:"stock_quantity"`
	ImageURL          string          `json:"image_url,omitempty"`
	ImagePlaceholder  string          `json:"image_placeholder,omitempty"`
	CategoryName      string          `json:"category_name,omitempty"`
	Href              string          `json:"href"`
	StockBadge        string          `json:"stock_badge,omitempty"`
	StockText         string          `json:"stock_text"`
	AddToCartDisabled bool            `json:"add_to_cart_disabled"`
}

// CategoryOption is one entry of the category filter
type CategoryOption struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Selected bool      `json:"selected"`
}

// EmptyState is shown when a listing has no products
type EmptyState struct {
	Title string `json:"title"`
	Hint  string `json:"hint"`
}

// ProductListing is the product listing page
type ProductListing struct {
	Title      string           `json:"title"`
	Subtitle   string           `json:"subtitle,omitempty"`
	CountLabel string           `json:"count_label"`
	Search     string           `json:"search,omitempty"`
	CategoryID string           `json:"category_id,omitempty"`
	Products   []ProductCard    `json:"products"`
	Categories []CategoryOption `json:"categories"`
	Empty      *EmptyState      `json:"empty_state,omitempty"`
}

// HomePage lists the newest products
type HomePage struct {
	FeaturedProducts []ProductCard `json:"featured_products"`
}

// CategoryDTO is a category as listed by the API
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

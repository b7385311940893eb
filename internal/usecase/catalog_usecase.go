package usecase

import (
	"context"
	"time"

	"rewards/internal/domain/entity"
)

// ProductListing is a catalog page with its "new since" badge count.
type ProductListing struct {
	Products []*entity.Product `json:"products"`
	NewSince int               `json:"newSince"`
}

type CreateProductInput struct {
	Name        string
	Description string
	PricePoints int
	ImageURL    string
	Available   bool
}

// ProductPatch is a partial product update; nil fields are left unchanged.
type ProductPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PricePoints *int    `json:"pricePoints,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// CatalogUsecase defines points catalog use cases
type CatalogUsecase interface {
	// ListProducts counts products created after since; a zero since counts nothing.
	ListProducts(ctx context.Context, availableOnly bool, since time.Time) (*ProductListing, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput, actor string) (entity.Result[*entity.Product], error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch, actor string) (entity.Result[*entity.Product], error)
	DeleteProduct(ctx context.Context, id, actor string) (entity.Result[*entity.Product], error)
}

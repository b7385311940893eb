package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type catalogService struct {
	router  repository.StoreRouter
	journal journal
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Router repository.StoreRouter
	Bus    service.SignalBus
	Logger *slog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		router:  params.Router,
		journal: newJournal(params.Bus, params.Logger),
	}
}

func (s *catalogService) ListProducts(ctx context.Context, availableOnly bool, since time.Time) (*usecase.ProductListing, error) {
	products, err := s.router.Active(ctx).Catalog().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	listing := &usecase.ProductListing{Products: make([]*entity.Product, 0, len(products))}
	for _, p := range products {
		if availableOnly && !p.Available {
			continue
		}
		listing.Products = append(listing.Products, p)
		if !since.IsZero() && p.IsNewSince(since) {
			listing.NewSince++
		}
	}

	return listing, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.router.Active(ctx).Catalog().FindByID(ctx, id)

	return product, errors.Wrap(err, "failed to find product")
}

func (s *catalogService) CreateProduct(ctx context.Context, input usecase.CreateProductInput, actor string) (entity.Result[*entity.Product], error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entity.Fail[*entity.Product](entity.CodeInvalidInput, "Product name is required"), nil
	}
	if input.PricePoints < 0 {
		return entity.Fail[*entity.Product](entity.CodeInvalidPrice, "Price must not be negative"), nil
	}

	store := s.router.Active(ctx)

	product := &entity.Product{
		ID:          "prod-" + uuid.NewString(),
		Name:        name,
		Description: input.Description,
		PricePoints: input.PricePoints,
		ImageURL:    input.ImageURL,
		Available:   input.Available,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Catalog().Create(ctx, product); err != nil {
		return entity.Result[*entity.Product]{}, errors.Wrap(err, "failed to create product")
	}

	s.journal.audit(ctx, store, actor, product.Name, "Added catalog item", entity.AuditCategoryCatalog,
		fmt.Sprintf("%d pts", product.PricePoints))

	return entity.Ok(product), nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, patch usecase.ProductPatch, actor string) (entity.Result[*entity.Product], error) {
	store := s.router.Active(ctx)

	product, err := store.Catalog().FindByID(ctx, id)
	if err != nil {
		return entity.Result[*entity.Product]{}, errors.Wrap(err, "failed to find product")
	}
	if product == nil {
		return entity.Fail[*entity.Product](entity.CodeProductNotFound, "Product not found"), nil
	}

	if patch.PricePoints != nil {
		if *patch.PricePoints < 0 {
			return entity.Fail[*entity.Product](entity.CodeInvalidPrice, "Price must not be negative"), nil
		}
		product.PricePoints = *patch.PricePoints
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return entity.Fail[*entity.Product](entity.CodeInvalidInput, "Product name is required"), nil
		}
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.Available != nil {
		product.Available = *patch.Available
	}

	if err := store.Catalog().Update(ctx, product); err != nil {
		return entity.Result[*entity.Product]{}, errors.Wrap(err, "failed to update product")
	}

	s.journal.audit(ctx, store, actor, product.Name, "Updated catalog item", entity.AuditCategoryCatalog, "")

	return entity.Ok(product), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id, actor string) (entity.Result[*entity.Product], error) {
	store := s.router.Active(ctx)

	product, err := store.Catalog().FindByID(ctx, id)
	if err != nil {
		return entity.Result[*entity.Product]{}, errors.Wrap(err, "failed to find product")
	}
	if product == nil {
		return entity.Fail[*entity.Product](entity.CodeProductNotFound, "Product not found"), nil
	}

	if err := store.Catalog().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.Fail[*entity.Product](entity.CodeProductNotFound, "Product not found"), nil
		}

		return entity.Result[*entity.Product]{}, errors.Wrap(err, "failed to delete product")
	}

	s.journal.audit(ctx, store, actor, product.Name, "Removed catalog item", entity.AuditCategoryCatalog, "")

	return entity.Ok(product), nil
}

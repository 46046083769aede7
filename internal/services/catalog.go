package services

import (
	"context"

	"github.com/foodorder/apiserver/types"
	"github.com/rs/zerolog"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	ListWithSeller(ctx context.Context) ([]types.Product, error)
	ListBySeller(ctx context.Context, sellerID int) ([]types.Product, error)
	Create(ctx context.Context, product types.Product) (types.Product, error)
	DeleteOwned(ctx context.Context, id, sellerID int) (int64, error)
	SalesBySeller(ctx context.Context, sellerID int) ([]types.SalesPoint, error)
}

// CatalogService encapsulates product use-cases.
type CatalogService struct {
	repo   ProductRepository
	events *EventPublisher
}

func NewCatalogService(repo ProductRepository, events *EventPublisher) *CatalogService {
	return &CatalogService{repo: repo, events: events}
}

func (s *CatalogService) ListAll(ctx context.Context) ([]types.Product, error) {
	return s.repo.ListWithSeller(ctx)
}

func (s *CatalogService) ListBySeller(ctx context.Context, sellerID int) ([]types.Product, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// Add stores a product as given. Name and price are not validated.
func (s *CatalogService) Add(ctx context.Context, sellerID int, name string, price float64) (types.Product, error) {
	product, err := s.repo.Create(ctx, types.Product{Name: name, Price: price, SellerID: sellerID})
	if err != nil {
		return types.Product{}, err
	}
	s.events.Publish(ctx, EventProductCreated, product)
	return product, nil
}

// Remove deletes the product only if sellerID owns it. A delete that matches
// nothing is not an error.
func (s *CatalogService) Remove(ctx context.Context, sellerID, productID int) error {
	affected, err := s.repo.DeleteOwned(ctx, productID, sellerID)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Int("product_id", productID).
		Int("seller_id", sellerID).
		Int64("rows", affected).
		Msg("product delete")

	if affected > 0 {
		s.events.Publish(ctx, EventProductDeleted, map[string]int{
			"product_id": productID,
			"seller_id":  sellerID,
		})
	}
	return nil
}

// Analytics returns per-product order counts and revenue for one seller.
func (s *CatalogService) Analytics(ctx context.Context, sellerID int) ([]types.SalesPoint, error) {
	return s.repo.SalesBySeller(ctx, sellerID)
}

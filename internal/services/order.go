package services

import (
	"context"
	"errors"

	"github.com/foodorder/apiserver/internal/store"
	"github.com/foodorder/apiserver/types"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order types.Order) (types.Order, error)
	ListByBuyer(ctx context.Context, buyerID int) ([]types.OrderDetail, error)
	ListBySeller(ctx context.Context, sellerID int) ([]types.OrderDetail, error)
	FindOwned(ctx context.Context, id, sellerID int) error
	UpdateStatus(ctx context.Context, id int, status string) error
}

// PriceLookup resolves a product's current price.
type PriceLookup interface {
	GetPrice(ctx context.Context, id int) (float64, error)
}

// Delivery carries the buyer-supplied fields of a new order.
type Delivery struct {
	Address       string
	Mobile        string
	PaymentMethod string
}

// OrderService encapsulates order use-cases.
type OrderService struct {
	repo     OrderRepository
	products PriceLookup
	events   *EventPublisher
}

func NewOrderService(repo OrderRepository, products PriceLookup, events *EventPublisher) *OrderService {
	return &OrderService{repo: repo, products: products, events: events}
}

// Place checks that the product exists, then inserts the order. The two
// statements do not share a transaction.
func (s *OrderService) Place(ctx context.Context, buyerID, productID int, delivery Delivery) (types.Order, error) {
	price, err := s.products.GetPrice(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Order{}, ErrProductNotFound
		}
		return types.Order{}, err
	}

	order, err := s.repo.Create(ctx, types.Order{
		BuyerID:       buyerID,
		ProductID:     productID,
		Status:        types.StatusPlaced,
		Address:       delivery.Address,
		Mobile:        delivery.Mobile,
		PaymentMethod: delivery.PaymentMethod,
	})
	if err != nil {
		return types.Order{}, err
	}

	s.events.Publish(ctx, EventOrderPlaced, struct {
		types.Order
		Price float64 `json:"price"`
	}{order, price})
	return order, nil
}

func (s *OrderService) ListForBuyer(ctx context.Context, buyerID int) ([]types.OrderDetail, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *OrderService) ListForSeller(ctx context.Context, sellerID int) ([]types.OrderDetail, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// UpdateStatus sets an opaque status on an order whose product belongs to
// sellerID.
func (s *OrderService) UpdateStatus(ctx context.Context, sellerID, orderID int, status string) error {
	if err := s.repo.FindOwned(ctx, orderID, sellerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.events.Publish(ctx, EventOrderStatusUpdated, map[string]any{
		"order_id":  orderID,
		"seller_id": sellerID,
		"status":    status,
	})
	return nil
}

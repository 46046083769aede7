package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/foodorder/apiserver/types"
)

// OrderRepository handles persistence for orders.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order types.Order) (types.Order, error) {
	order.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO orders (buyer_id, product_id, status, address, mobile, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		order.BuyerID,
		order.ProductID,
		order.Status,
		order.Address,
		order.Mobile,
		order.PaymentMethod,
		order.CreatedAt,
	).Scan(&order.ID); err != nil {
		return types.Order{}, err
	}
	return order, nil
}

// ListByBuyer returns the buyer's orders with product and seller names.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID int) ([]types.OrderDetail, error) {
	const query = `
		SELECT orders.id, orders.buyer_id, orders.product_id, orders.status, orders.address,
		       orders.mobile, orders.payment_method, orders.created_at,
		       products.name, sellers.name
		FROM orders
		JOIN products ON orders.product_id = products.id
		JOIN sellers ON products.seller_id = sellers.id
		WHERE orders.buyer_id = $1
		ORDER BY orders.id`
	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]types.OrderDetail, 0)
	for rows.Next() {
		var detail types.OrderDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.BuyerID,
			&detail.ProductID,
			&detail.Status,
			&detail.Address,
			&detail.Mobile,
			&detail.PaymentMethod,
			&detail.CreatedAt,
			&detail.ProductName,
			&detail.SellerName,
		); err != nil {
			return nil, err
		}
		orders = append(orders, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListBySeller returns orders for any of the seller's products with
// product and buyer names.
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID int) ([]types.OrderDetail, error) {
	const query = `
		SELECT orders.id, orders.buyer_id, orders.product_id, orders.status, orders.address,
		       orders.mobile, orders.payment_method, orders.created_at,
		       products.name, buyers.name
		FROM orders
		JOIN products ON orders.product_id = products.id
		JOIN buyers ON orders.buyer_id = buyers.id
		WHERE products.seller_id = $1
		ORDER BY orders.id`
	rows, err := r.db.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]types.OrderDetail, 0)
	for rows.Next() {
		var detail types.OrderDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.BuyerID,
			&detail.ProductID,
			&detail.Status,
			&detail.Address,
			&detail.Mobile,
			&detail.PaymentMethod,
			&detail.CreatedAt,
			&detail.ProductName,
			&detail.BuyerName,
		); err != nil {
			return nil, err
		}
		orders = append(orders, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOwned returns ErrNotFound unless the order exists and its product
// belongs to sellerID.
func (r *OrderRepository) FindOwned(ctx context.Context, id, sellerID int) error {
	const query = `
		SELECT orders.id
		FROM orders
		JOIN products ON orders.product_id = products.id
		WHERE orders.id = $1 AND products.seller_id = $2`
	var found int
	if err := r.db.QueryRowContext(ctx, query, id, sellerID).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	const query = `UPDATE orders SET status = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// GetStatus returns the current status of an order.
func (r *OrderRepository) GetStatus(ctx context.Context, id int) (string, error) {
	const query = `SELECT status FROM orders WHERE id = $1`
	var status string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return status, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/foodorder/apiserver/types"
)

// ProductRepository handles persistence for products.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListWithSeller returns the whole catalog with each seller's name.
func (r *ProductRepository) ListWithSeller(ctx context.Context) ([]types.Product, error) {
	const query = `
		SELECT products.id, products.name, products.price, products.seller_id, products.created_at, sellers.name
		FROM products
		JOIN sellers ON products.seller_id = sellers.id
		ORDER BY products.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]types.Product, 0)
	for rows.Next() {
		var product types.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.SellerID,
			&product.CreatedAt,
			&product.SellerName,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID int) ([]types.Product, error) {
	const query = `
		SELECT id, name, price, seller_id, created_at
		FROM products
		WHERE seller_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]types.Product, 0)
	for rows.Next() {
		var product types.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.SellerID,
			&product.CreatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// GetPrice returns the current price of a product, or ErrNotFound.
func (r *ProductRepository) GetPrice(ctx context.Context, id int) (float64, error) {
	const query = `SELECT price FROM products WHERE id = $1`
	var price float64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return price, nil
}

func (r *ProductRepository) Create(ctx context.Context, product types.Product) (types.Product, error) {
	product.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO products (name, price, seller_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.SellerID,
		product.CreatedAt,
	).Scan(&product.ID); err != nil {
		return types.Product{}, err
	}
	return product, nil
}

// DeleteOwned removes a product only when it belongs to sellerID and
// reports how many rows were removed.
func (r *ProductRepository) DeleteOwned(ctx context.Context, id, sellerID int) (int64, error) {
	const query = `DELETE FROM products WHERE id = $1 AND seller_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, sellerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SalesBySeller aggregates the seller's products left-joined with their
// orders, grouped by product name. Every joined row adds the product price
// once, so a product without orders still reports its price as revenue.
func (r *ProductRepository) SalesBySeller(ctx context.Context, sellerID int) ([]types.SalesPoint, error) {
	const query = `
		SELECT products.name, COUNT(orders.id) AS order_count, SUM(products.price) AS total_revenue
		FROM products
		LEFT JOIN orders ON products.id = orders.product_id
		WHERE products.seller_id = $1
		GROUP BY products.name
		ORDER BY products.name`
	rows, err := r.db.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]types.SalesPoint, 0)
	for rows.Next() {
		var point types.SalesPoint
		if err := rows.Scan(&point.Name, &point.OrderCount, &point.TotalRevenue); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

package store

import (
	"context"
	"database/sql"

	"github.com/foodorder/apiserver/types"
)

// ReportRepository runs the platform-wide aggregate queries behind the
// operator dashboard.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Totals(ctx context.Context) (types.Totals, error) {
	const query = `
		SELECT
			(SELECT COUNT(1) FROM sellers),
			(SELECT COUNT(1) FROM buyers),
			(SELECT COUNT(1) FROM products),
			(SELECT COUNT(1) FROM orders)`
	var totals types.Totals
	if err := r.db.QueryRowContext(ctx, query).Scan(
		&totals.Sellers,
		&totals.Buyers,
		&totals.Products,
		&totals.Orders,
	); err != nil {
		return types.Totals{}, err
	}
	return totals, nil
}

// RecentOrders returns the newest orders with product, buyer and seller names.
func (r *ReportRepository) RecentOrders(ctx context.Context, limit int) ([]types.OrderDetail, error) {
	if limit < 1 {
		limit = 10
	}

	const query = `
		SELECT orders.id, orders.buyer_id, orders.product_id, orders.status, orders.address,
		       orders.mobile, orders.payment_method, orders.created_at,
		       products.name, buyers.name, sellers.name
		FROM orders
		JOIN products ON orders.product_id = products.id
		JOIN buyers ON orders.buyer_id = buyers.id
		JOIN sellers ON products.seller_id = sellers.id
		ORDER BY orders.id DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]types.OrderDetail, 0, limit)
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

// TopSellers ranks sellers by the summed price of their products across all
// joined order rows.
func (r *ReportRepository) TopSellers(ctx context.Context, limit int) ([]types.SellerRanking, error) {
	if limit < 1 {
		limit = 5
	}

	const query = `
		SELECT sellers.name, COUNT(orders.id) AS order_count, COALESCE(SUM(products.price), 0) AS revenue
		FROM sellers
		LEFT JOIN products ON sellers.id = products.seller_id
		LEFT JOIN orders ON products.id = orders.product_id
		GROUP BY sellers.id, sellers.name
		ORDER BY revenue DESC, sellers.name
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rankings := make([]types.SellerRanking, 0, limit)
	for rows.Next() {
		var ranking types.SellerRanking
		if err := rows.Scan(&ranking.Name, &ranking.OrderCount, &ranking.Revenue); err != nil {
			return nil, err
		}
		rankings = append(rankings, ranking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rankings, nil
}

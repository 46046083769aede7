package types

// Totals counts rows across the platform.
type Totals struct {
	Sellers  int `json:"total_sellers"`
	Buyers   int `json:"total_buyers"`
	Products int `json:"total_products"`
	Orders   int `json:"total_orders"`
}

// SellerRanking is one row of the top sellers table.
type SellerRanking struct {
	Name       string  `json:"name"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// Dashboard is the platform-wide report produced for operators.
type Dashboard struct {
	GeneratedAt  string          `json:"generated_at"`
	Totals       Totals          `json:"totals"`
	RecentOrders []OrderDetail   `json:"recent_orders"`
	TopSellers   []SellerRanking `json:"top_sellers"`
}

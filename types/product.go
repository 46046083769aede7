package types

import "time"

// Product is a menu item offered by a seller.
type Product struct {
	// ID is the unique identifier of the product.
	ID int `json:"id" db:"id"`

	// Name is the human-readable product name.
	Name string `json:"name" db:"name"`

	// Price is the unit price. The store does not enforce a sign.
	Price float64 `json:"price" db:"price"`

	// SellerID references the seller that owns the product.
	SellerID int `json:"seller_id" db:"seller_id"`

	// SellerName is populated by the public catalog listing only.
	SellerName string `json:"seller_name,omitempty" db:"seller_name"`

	// CreatedAt is the timestamp at which the product was added.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SalesPoint is one row of a seller's sales chart, grouped by product name.
type SalesPoint struct {
	Name         string  `json:"name" db:"name"`
	OrderCount   int     `json:"order_count" db:"order_count"`
	TotalRevenue float64 `json:"total_revenue" db:"total_revenue"`
}

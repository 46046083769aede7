package types

import "time"

// StatusPlaced is the status every new order starts with.
const StatusPlaced = "Placed"

// Order is a buyer's purchase of a single product.
type Order struct {
	// ID is the unique identifier of the order.
	ID int `json:"id" db:"id"`

	// BuyerID references the buyer that placed the order.
	BuyerID int `json:"buyer_id" db:"buyer_id"`

	// ProductID references the ordered product.
	ProductID int `json:"product_id" db:"product_id"`

	// Status is free-form text set by the owning seller.
	// New orders start as StatusPlaced.
	Status string `json:"status" db:"status"`

	// Address is the delivery address.
	Address string `json:"address" db:"address"`

	// Mobile is the contact number for delivery.
	Mobile string `json:"mobile" db:"mobile"`

	// PaymentMethod is the buyer's chosen payment method, e.g. "cash".
	PaymentMethod string `json:"payment_method" db:"payment_method"`

	// CreatedAt is the timestamp at which the order was placed.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrderDetail is an order joined with the names of its counterparties.
// Buyer listings carry SellerName, seller listings carry BuyerName.
type OrderDetail struct {
	Order
	ProductName string `json:"product_name"`
	SellerName  string `json:"seller_name,omitempty"`
	BuyerName   string `json:"buyer_name,omitempty"`
}

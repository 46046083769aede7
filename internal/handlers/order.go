package handlers

import (
	"errors"
	"net/http"

	"github.com/foodorder/apiserver/internal/services"
	"github.com/foodorder/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// OrderHandler provides HTTP handlers for orders.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderRouter registers order routes. Buyers place and list their orders,
// sellers list and update orders for their products.
func OrderRouter(r chi.Router, orders *services.OrderService, tokens TokenVerifier) {
	handler := NewOrderHandler(orders)
	auth := RequireAuth(tokens)

	r.Group(func(r chi.Router) {
		r.Use(auth, RequireRole(types.RoleBuyer))
		r.Get("/buyer", handler.ListBuyerOrders)
		r.Post("/{productID}", handler.PlaceOrder)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth, RequireRole(types.RoleSeller))
		r.Get("/seller", handler.ListSellerOrders)
		r.Put("/{orderID}/status", handler.UpdateStatus)
	})
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	buyer, _ := IdentityFromContext(r.Context())

	productID, err := parseIDParam(r, "productID", "invalid product id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req PlaceOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.orders.Place(r.Context(), buyer.UserID, productID, services.Delivery{
		Address:       req.Address,
		Mobile:        req.Mobile,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeInternal(w, r, err, "place order")
		return
	}
	writeMessage(w, http.StatusCreated, "✅ Order placed successfully!")
}

func (h *OrderHandler) ListBuyerOrders(w http.ResponseWriter, r *http.Request) {
	buyer, _ := IdentityFromContext(r.Context())

	orders, err := h.orders.ListForBuyer(r.Context(), buyer.UserID)
	if err != nil {
		writeInternal(w, r, err, "list buyer orders")
		return
	}
	writeJSON(w, http.StatusOK, OrderListResponse{Orders: orEmpty(orders)})
}

func (h *OrderHandler) ListSellerOrders(w http.ResponseWriter, r *http.Request) {
	seller, _ := IdentityFromContext(r.Context())

	orders, err := h.orders.ListForSeller(r.Context(), seller.UserID)
	if err != nil {
		writeInternal(w, r, err, "list seller orders")
		return
	}
	writeJSON(w, http.StatusOK, OrderListResponse{Orders: orEmpty(orders)})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	seller, _ := IdentityFromContext(r.Context())

	orderID, err := parseIDParam(r, "orderID", "invalid order id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), seller.UserID, orderID, req.Status); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found or access denied")
			return
		}
		writeInternal(w, r, err, "update order status")
		return
	}
	writeMessage(w, http.StatusOK, "Order status updated!")
}

type PlaceOrderRequest struct {
	Address       string `json:"address"`
	Mobile        string `json:"mobile"`
	PaymentMethod string `json:"payment_method"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type OrderListResponse struct {
	Orders []types.OrderDetail `json:"orders"`
}

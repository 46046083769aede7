package handlers

import (
	"net/http"

	"github.com/foodorder/apiserver/internal/services"
	"github.com/foodorder/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ProductHandler provides HTTP handlers for the catalog.
type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ProductRouter registers product routes. The listing is public; everything
// else requires a seller token.
func ProductRouter(r chi.Router, catalog *services.CatalogService, tokens TokenVerifier) {
	handler := NewProductHandler(catalog)

	r.Get("/", handler.ListProducts)
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(tokens), RequireRole(types.RoleSeller))
		r.Get("/seller", handler.ListSellerProducts)
		r.Get("/analytics", handler.Analytics)
		r.Post("/", handler.AddProduct)
		r.Delete("/{productID}", handler.DeleteProduct)
	})
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAll(r.Context())
	if err != nil {
		writeInternal(w, r, err, "list products")
		return
	}
	writeJSON(w, http.StatusOK, ProductListResponse{Products: orEmpty(products)})
}

func (h *ProductHandler) ListSellerProducts(w http.ResponseWriter, r *http.Request) {
	seller, _ := IdentityFromContext(r.Context())

	products, err := h.catalog.ListBySeller(r.Context(), seller.UserID)
	if err != nil {
		writeInternal(w, r, err, "list seller products")
		return
	}
	writeJSON(w, http.StatusOK, ProductListResponse{Products: orEmpty(products)})
}

func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	seller, _ := IdentityFromContext(r.Context())

	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.catalog.Add(r.Context(), seller.UserID, req.Name, req.Price); err != nil {
		writeInternal(w, r, err, "add product")
		return
	}
	writeMessage(w, http.StatusCreated, "Product added successfully!")
}

// DeleteProduct reports success even when the product belongs to someone
// else or does not exist.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	seller, _ := IdentityFromContext(r.Context())

	id, err := parseIDParam(r, "productID", "invalid product id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalog.Remove(r.Context(), seller.UserID, id); err != nil {
		writeInternal(w, r, err, "delete product")
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully!")
}

func (h *ProductHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	seller, _ := IdentityFromContext(r.Context())

	points, err := h.catalog.Analytics(r.Context(), seller.UserID)
	if err != nil {
		writeInternal(w, r, err, "product analytics")
		return
	}
	writeJSON(w, http.StatusOK, AnalyticsResponse{ChartData: orEmpty(points)})
}

type ProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ProductListResponse struct {
	Products []types.Product `json:"products"`
}

type AnalyticsResponse struct {
	ChartData []types.SalesPoint `json:"chartData"`
}

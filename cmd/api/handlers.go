package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/almondkiruthu/flashtans-app/pkg/logger"
	"github.com/almondkiruthu/flashtans-app/pkg/otel"
	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// loginRequest represents admin credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// productRequest is the create/update payload for a product.
type productRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       *int            `json:"stock"`
	Image       string          `json:"image"`
}

// createOrderRequest is the checkout payload.
type createOrderRequest struct {
	Items        []orderItemRequest  `json:"items"`
	CustomerInfo customerInfoRequest `json:"customerInfo"`
}

type orderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type customerInfoRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// healthHandler reports liveness.
// @Summary Health check
// @Produce json
// @Success 200
// @Router /health [get]
func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loginHandler authenticates an admin and creates a Redis-backed session.
// @Summary Admin login
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /login [post]
func loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		respondError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	if want := os.Getenv("ADMIN_PASSWORD"); want != "" && req.Password != want {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sid := uuid.NewString()
	if err := redisClient.Set(ctx, "session:"+sid, req.Username, time.Hour).Err(); err != nil {
		logger.Log.Error("create session", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "session error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(time.Hour),
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
}

// listProductsHandler returns the catalog, newest first.
// @Summary List products
// @Produce json
// @Success 200 {array} storefront.Product
// @Router /api/products [get]
func listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listProductsHandler")
	defer span.End()

	list, err := products.List(ctx)
	if err != nil {
		logger.Log.Error("list products", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// createProductHandler adds a product to the catalog.
// @Summary Create product
// @Accept json
// @Produce json
// @Param product body productRequest true "Product"
// @Success 201 {object} storefront.Product
// @Router /api/products [post]
func createProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createProductHandler")
	defer span.End()

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == "" || req.Description == "" || req.Price.IsZero() || req.Stock == nil {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	p, err := products.Create(ctx, storefront.NewProduct{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       *req.Stock,
		Image:       req.Image,
	})
	if err != nil {
		logger.Log.Error("create product", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// updateProductHandler overwrites a product's mutable fields.
// @Summary Update product
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body productRequest true "Product"
// @Success 200 {object} storefront.Product
// @Router /api/products/{id} [put]
func updateProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateProductHandler")
	defer span.End()

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Stock == nil {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	id := mux.Vars(r)["id"]
	p, err := products.Update(ctx, id, storefront.ProductUpdate{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       *req.Stock,
	})
	if err != nil {
		if errors.Is(err, storefront.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		logger.Log.Error("update product", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// deleteProductHandler removes a product from the catalog.
// @Summary Delete product
// @Produce json
// @Param id path string true "Product ID"
// @Success 200
// @Router /api/products/{id} [delete]
func deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteProductHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	deleted, err := products.Delete(ctx, id)
	if err != nil {
		logger.Log.Error("delete product", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// createOrderHandler runs checkout: it validates the requested items against
// the live catalog, snapshots name and price, computes subtotals and the
// total, creates the customer, and then hands the validated order to the
// repository, which re-checks stock atomically with the decrement.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body createOrderRequest true "Order"
// @Success 201 {object} storefront.Order
// @Router /api/orders [post]
func createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrderHandler")
	defer span.End()

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if len(req.Items) == 0 || req.CustomerInfo.Name == "" || req.CustomerInfo.Email == "" {
		respondError(w, http.StatusBadRequest, "Items and customer info are required")
		return
	}

	total := decimal.Zero
	items := make([]storefront.NewOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := products.Get(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, storefront.ErrNotFound) {
				respondError(w, http.StatusNotFound, fmt.Sprintf("Product %s not found", it.ProductID))
				return
			}
			logger.Log.Error("verify product", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
			respondError(w, http.StatusInternalServerError, "Failed to create order")
			return
		}
		if p.Stock < it.Quantity {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", p.Name))
			return
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(subtotal)
		items = append(items, storefront.NewOrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    it.Quantity,
			Subtotal:    subtotal,
		})
	}

	customerID, err := customers.Create(ctx, storefront.NewCustomer{
		Name:    req.CustomerInfo.Name,
		Email:   req.CustomerInfo.Email,
		Address: req.CustomerInfo.Address,
	})
	if err != nil {
		logger.Log.Error("create customer", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	o, err := orders.Create(ctx, storefront.NewOrder{
		CustomerID: customerID,
		Total:      total,
		Items:      items,
	})
	if err != nil {
		if errors.Is(err, storefront.ErrInsufficientStock) {
			// Another order for the same product won the race.
			respondError(w, http.StatusBadRequest, "Insufficient stock")
			return
		}
		logger.Log.Error("create order", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// listOrdersHandler returns every order, newest first.
// @Summary List orders
// @Produce json
// @Success 200 {array} storefront.Order
// @Router /api/orders [get]
func listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	list, err := orders.List(ctx)
	if err != nil {
		logger.Log.Error("list orders", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// getOrderHandler returns one order with items and customer details.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} storefront.Order
// @Router /api/orders/{id} [get]
func getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	o, err := orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storefront.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		logger.Log.Error("get order", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		respondError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

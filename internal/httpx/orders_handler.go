package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/checkout"
	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderGetter is the read path behind GET /orders/{id}.
type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (*shop.Order, error)
}

type OrdersHandler struct {
	Checkout *checkout.Service
	Orders   OrderGetter
	Producer kafkax.Publisher
	Redis    *redis.Client
	Logger   *zap.Logger
	Service  string
}

type PlaceOrderResp struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.placeOrder)
	r.Get("/orders/{id}", h.getOrder)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid order data"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Checkout.PlaceOrder(ctx, req)
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidOrder) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid order data"})
			return
		}
		h.Logger.Error("place order failed",
			zap.String("user_email", req.UserEmail),
			zap.Error(err))
		// Error text goes to the caller; fine for an internal tool.
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Server error",
			"error":   err.Error(),
		})
		return
	}

	// Cache the stored document so GET /orders/{id} skips the DB (best
	// effort). The service returns the order as persisted, so the cached
	// timestamp matches the row.
	cacheKey := fmt.Sprintf(redisx.KeyOrderCache, order.ID)
	if doc, err := json.Marshal(order); err == nil {
		_ = h.Redis.Set(ctx, cacheKey, doc, redisx.TTLOrderCache).Err()
	}

	// Publish OrderPlaced (envelope v1), keyed by order id.
	ev := shop.Envelope{
		EventID:       uuid.NewString(),
		EventType:     shop.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: order.ID,
	}
	ev.Payload = kafkax.MustMarshal(shop.OrderPlacedPayload{
		OrderID:   order.ID,
		UserEmail: req.UserEmail,
		Items:     toItemQtys(req.Cart),
		Total:     req.Total,
	})
	h.Producer.Publish(shop.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(shop.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusCreated, PlaceOrderResp{
		Message: "Order placed successfully",
		OrderID: order.ID,
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) cache
	key := fmt.Sprintf(redisx.KeyOrderCache, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	// 2) fallback DB
	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, shop.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Server error",
			"error":   err.Error(),
		})
		return
	}
	b, _ := json.Marshal(order)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func toItemQtys(items []shop.CartItem) []shop.ItemQty {
	out := make([]shop.ItemQty, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		out = append(out, shop.ItemQty{ProductID: it.ProductID, Qty: qty})
	}
	return out
}

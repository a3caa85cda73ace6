// Package stockwatch watches checkout traffic for stock damage. Checkout
// decrements stock unconditionally, so concurrent orders can drive a product
// below zero; this worker reads the level after each placed order and raises
// stock.alerts events instead of letting oversells go unnoticed.
package stockwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (*shop.Product, error)
}

type Service struct {
	Products    ProductReader
	Dedup       Dedup
	Redis       *redis.Client
	Alerts      kafkax.Publisher
	ServiceName string
	Threshold   int // LOW_STOCK when 0 <= stock <= Threshold
	Logger      *zap.Logger
}

// HandleOrderPlaced is the consumer handler for order.placed. It must only
// return an error when retrying the message could help; per-product lookup
// failures are logged and skipped so the offset still commits.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env shop.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != shop.EventOrderPlaced {
		return nil // ignore
	}

	// dedup by event_id
	if s.Dedup.Seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[shop.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	for _, it := range p.Items {
		product, err := s.Products.GetProduct(ctx, it.ProductID)
		if err != nil {
			s.Logger.Warn("product lookup failed",
				zap.String("product_id", it.ProductID),
				zap.String("order_id", p.OrderID),
				zap.Error(err))
			continue
		}
		_ = s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyProductStock, it.ProductID),
			product.Stock, redisx.TTLStockCache).Err()

		switch {
		case product.Stock < 0:
			s.Logger.Warn("product oversold",
				zap.String("product_id", product.ID),
				zap.String("name", product.Name),
				zap.Int("stock", product.Stock),
				zap.String("order_id", p.OrderID))
			s.publishAlert(p.OrderID, product, "OVERSOLD", env.TraceID)
		case product.Stock <= s.Threshold:
			s.publishAlert(p.OrderID, product, "LOW_STOCK", env.TraceID)
		}
	}
	return nil
}

func (s *Service) publishAlert(orderID string, product *shop.Product, reason, trace string) {
	eventType := shop.EventStockLow
	if reason == "OVERSOLD" {
		eventType = shop.EventStockOversold
	}
	ev := shop.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(shop.StockAlertPayload{
			OrderID:     orderID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Stock:       product.Stock,
			Reason:      reason,
		}),
	}
	s.Alerts.Publish(shop.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

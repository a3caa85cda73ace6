package redisx

import "time"

const (
	// Cached order document: order:{order_id} -> full order JSON
	KeyOrderCache = "order:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Last observed stock after a checkout: stock:{product_id} -> int
	KeyProductStock = "stock:%s"
)

var (
	TTLOrderCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
	TTLStockCache = 1 * time.Minute
)

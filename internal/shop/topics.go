package shop

const (
	TopicOrderPlaced = "order.placed"
	TopicStockAlerts = "stock.alerts"
)

// Partition key = order_id, so every event of one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated EventType = "order.created"
	EventTypeOrderUpdated EventType = "order.updated"
	EventTypeOrderDeleted EventType = "order.deleted"

	// Return события
	EventTypeReturnCreated EventType = "return.created"
	EventTypeReturnUpdated EventType = "return.updated"
	EventTypeReturnDeleted EventType = "return.deleted"

	// Ledger события
	EventTypeStockAdjusted  EventType = "stock.adjusted"
	EventTypeCreditAdjusted EventType = "credit.adjusted"
)

// Topics для Kafka
const (
	TopicOrderEvents  = "sales.order.events"
	TopicReturnEvents = "sales.return.events"
	TopicLedgerEvents = "sales.ledger.events"
)

// OrderEvent представляет событие жизненного цикла заказа
type OrderEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// ReturnEvent представляет событие жизненного цикла возврата
type ReturnEvent struct {
	EventType  EventType `json:"event_type"`
	ReturnID   string    `json:"return_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// LedgerEvent представляет применённую корректировку ledger'а:
// изменение складского остатка товара или баланса покупателя.
type LedgerEvent struct {
	EventType EventType `json:"event_type"`
	// EntityID — id товара для stock.adjusted, id покупателя для credit.adjusted.
	EntityID  string    `json:"entity_id"`
	Delta     int64     `json:"delta"`
	Balance   int64     `json:"balance"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID, status string) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now(),
	}
}

// NewReturnEvent создает новое событие возврата
func NewReturnEvent(eventType EventType, returnID, customerID, status string) *ReturnEvent {
	return &ReturnEvent{
		EventType:  eventType,
		ReturnID:   returnID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now(),
	}
}

// NewLedgerEvent создает новое событие корректировки ledger'а
func NewLedgerEvent(eventType EventType, entityID string, delta, balance int64) *LedgerEvent {
	return &LedgerEvent{
		EventType: eventType,
		EntityID:  entityID,
		Delta:     delta,
		Balance:   balance,
		Timestamp: time.Now(),
	}
}

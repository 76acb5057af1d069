package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// Topics для Kafka.
const (
	TopicOrderEvents = "vendorhub.order.events"
)

// OrderEvent представляет событие жизненного цикла заказа,
// публикуемое для downstream-потребителей (нотификации, аналитика).
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа.
func NewOrderEvent(eventType, orderID, customerID string, status domain.OrderStatus) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     string(status),
		Timestamp:  time.Now(),
	}
}

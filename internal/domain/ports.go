package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// OrderGateway описывает операции бэкенда над заказами.
// Реализации: REST-клиент upstream-бэкенда, PostgreSQL и in-memory драйверы.
type OrderGateway interface {
	// Orders возвращает полную коллекцию заказов в порядке бэкенда.
	Orders(ctx context.Context) ([]Order, error)
	// OrdersByVendor возвращает заказы, содержащие позиции вендора.
	OrdersByVendor(ctx context.Context, vendorID string) ([]Order, error)
	// OrderByID возвращает заказ или ErrOrderNotFound.
	OrderByID(ctx context.Context, id string) (Order, error)
	// UpdateStatus выставляет статус и заметку заказа.
	// Локальная копия не мутируется: новое состояние видно после re-fetch.
	UpdateStatus(ctx context.Context, id string, status OrderStatus, note string) error
	// UpdatePartialDelivery помечает позиции вендора доставленными и может
	// перевести агрегатный статус заказа в PARTIALLY DELIVERED.
	UpdatePartialDelivery(ctx context.Context, id, vendorID string) (string, error)
	// CreateOrder сохраняет новый заказ и возвращает подтверждённую бэкендом версию.
	CreateOrder(ctx context.Context, order Order) (Order, error)
}

// ProductGateway описывает чтение каталога товаров.
type ProductGateway interface {
	Products(ctx context.Context) ([]Product, error)
	ProductsByVendor(ctx context.Context, vendorID string) ([]Product, error)
}

// ReviewGateway описывает чтение отзывов о вендорах.
type ReviewGateway interface {
	ReviewsByVendor(ctx context.Context, vendorID string) ([]Review, error)
	AverageRating(ctx context.Context, vendorID string) (decimal.Decimal, error)
}

// UserGateway описывает чтение пользователей.
type UserGateway interface {
	UserByID(ctx context.Context, id string) (User, error)
}

// Gateway объединяет все операции бэкенда, которые потребляет этот сервис.
type Gateway interface {
	OrderGateway
	ProductGateway
	ReviewGateway
	UserGateway
}

// CredentialSource поставляет непрозрачный bearer-токен для вызовов бэкенда.
// Получение и обновление токена — забота внешнего коллаборатора;
// ядро никогда не читает его из глобального состояния.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// Типы доменных событий жизненного цикла заказа.
const (
	EventOrderCreated            = "order.created"
	EventOrderStatusChanged      = "order.status_changed"
	EventOrderPartiallyDelivered = "order.partially_delivered"
)

// EventPublisher публикует доменные события жизненного цикла заказа.
// Реализация опциональна: nil-безопасная обёртка позволяет работать без брокера.
type EventPublisher interface {
	PublishOrderEvent(eventType, orderID, customerID string, status OrderStatus) error
}

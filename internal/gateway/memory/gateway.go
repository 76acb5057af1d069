// Package memory содержит in-memory реализацию гейтвея бэкенда
// для локальной разработки и тестов.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// Gateway — простая in-memory реализация domain.Gateway.
// Заказы хранятся в порядке добавления, как их отдавал бы бэкенд.
type Gateway struct {
	mu       sync.RWMutex
	orders   []domain.Order
	products []domain.Product
	reviews  []domain.Review
	users    map[string]domain.User
}

// NewGateway возвращает пустой in-memory гейтвей.
func NewGateway() *Gateway {
	return &Gateway{users: make(map[string]domain.User)}
}

// SeedOrders добавляет заказы в конец коллекции.
func (g *Gateway) SeedOrders(orders ...domain.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders = append(g.orders, orders...)
}

// SeedProducts добавляет товары каталога.
func (g *Gateway) SeedProducts(products ...domain.Product) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.products = append(g.products, products...)
}

// SeedReviews добавляет отзывы о вендорах.
func (g *Gateway) SeedReviews(reviews ...domain.Review) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reviews = append(g.reviews, reviews...)
}

// SeedUsers добавляет пользователей.
func (g *Gateway) SeedUsers(users ...domain.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range users {
		g.users[u.ID] = u
	}
}

// Orders возвращает копию полной коллекции заказов.
func (g *Gateway) Orders(_ context.Context) ([]domain.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return cloneOrders(g.orders), nil
}

// OrdersByVendor возвращает заказы, содержащие хотя бы одну позицию вендора.
func (g *Gateway) OrdersByVendor(_ context.Context, vendorID string) ([]domain.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]domain.Order, 0, len(g.orders))
	for _, order := range g.orders {
		if order.HasVendorItems(vendorID) {
			result = append(result, cloneOrder(order))
		}
	}
	return result, nil
}

// OrderByID возвращает заказ или ErrOrderNotFound.
func (g *Gateway) OrderByID(_ context.Context, id string) (domain.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, order := range g.orders {
		if order.ID == id {
			return cloneOrder(order), nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// UpdateStatus выставляет статус и заметку заказа.
func (g *Gateway) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, note string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.orders {
		if g.orders[i].ID != id {
			continue
		}
		g.orders[i].Status = status
		g.orders[i].Note = note
		g.orders[i].UpdatedAt = time.Now().UTC()
		return nil
	}
	return domain.ErrOrderNotFound
}

// UpdatePartialDelivery помечает позиции вендора доставленными.
// Если после этого доставлены все позиции, заказ считается DELIVERED,
// иначе переводится в PARTIALLY DELIVERED.
func (g *Gateway) UpdatePartialDelivery(_ context.Context, id, vendorID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.orders {
		if g.orders[i].ID != id {
			continue
		}

		order := &g.orders[i]
		allDelivered := true
		for j := range order.Items {
			if order.Items[j].VendorID == vendorID {
				order.Items[j].Status = domain.ItemStatusDelivered
			}
			if order.Items[j].Status != domain.ItemStatusDelivered {
				allDelivered = false
			}
		}
		if allDelivered {
			order.Status = domain.OrderStatusDelivered
		} else {
			order.Status = domain.OrderStatusPartiallyDelivered
		}
		order.UpdatedAt = time.Now().UTC()
		return "Vendor items marked as delivered", nil
	}
	return "", domain.ErrOrderNotFound
}

// CreateOrder добавляет заказ в конец коллекции.
func (g *Gateway) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders = append(g.orders, cloneOrder(order))
	return cloneOrder(order), nil
}

// Products возвращает копию каталога.
func (g *Gateway) Products(_ context.Context) ([]domain.Product, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]domain.Product, len(g.products))
	copy(result, g.products)
	return result, nil
}

// ProductsByVendor возвращает товары вендора.
func (g *Gateway) ProductsByVendor(_ context.Context, vendorID string) ([]domain.Product, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]domain.Product, 0, len(g.products))
	for _, p := range g.products {
		if p.VendorID == vendorID {
			result = append(result, p)
		}
	}
	return result, nil
}

// ReviewsByVendor возвращает отзывы вендора.
func (g *Gateway) ReviewsByVendor(_ context.Context, vendorID string) ([]domain.Review, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]domain.Review, 0, len(g.reviews))
	for _, r := range g.reviews {
		if r.VendorID == vendorID {
			result = append(result, r)
		}
	}
	return result, nil
}

// AverageRating считает среднюю оценку вендора по отзывам.
func (g *Gateway) AverageRating(_ context.Context, vendorID string) (decimal.Decimal, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	sum := decimal.Zero
	count := 0
	for _, r := range g.reviews {
		if r.VendorID == vendorID {
			sum = sum.Add(decimal.NewFromInt32(r.Rating))
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, nil
	}
	return sum.Div(decimal.NewFromInt(int64(count))).Round(2), nil
}

// UserByID возвращает пользователя или ErrUserNotFound.
func (g *Gateway) UserByID(_ context.Context, id string) (domain.User, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	user, ok := g.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func cloneOrder(order domain.Order) domain.Order {
	clone := order
	clone.Items = make([]domain.OrderItem, len(order.Items))
	copy(clone.Items, order.Items)
	return clone
}

func cloneOrders(orders []domain.Order) []domain.Order {
	result := make([]domain.Order, len(orders))
	for i, order := range orders {
		result[i] = cloneOrder(order)
	}
	return result
}

var _ domain.Gateway = (*Gateway)(nil)

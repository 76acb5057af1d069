// Package session хранит коллекцию заказов на время жизни одного экрана.
// Коллекция живёт только в памяти: каждый Refresh полностью заменяет её
// свежей выборкой из бэкенда, межсессионного кэширования нет.
package session

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/metrics"
)

// Store — per-screen коллекция заказов поверх OrderGateway.
type Store struct {
	mu      sync.RWMutex
	gateway domain.OrderGateway
	// vendorID непустой для vendor-scoped экрана.
	vendorID string
	orders   []domain.Order
	metrics  *metrics.OrderMetrics
	logger   *log.Entry
}

// NewStore создаёт стор полной коллекции заказов (админские экраны).
// m может быть nil: метрики тогда не записываются.
func NewStore(gateway domain.OrderGateway, m *metrics.OrderMetrics, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.WithField("component", "session-store")
	}
	return &Store{gateway: gateway, metrics: m, logger: logger}
}

// NewVendorStore создаёт стор, ограниченный заказами одного вендора.
func NewVendorStore(gateway domain.OrderGateway, vendorID string, m *metrics.OrderMetrics, logger *log.Entry) *Store {
	store := NewStore(gateway, m, logger)
	store.vendorID = vendorID
	return store
}

// Refresh полностью замещает коллекцию свежей выборкой из бэкенда.
// При ошибке прежняя коллекция остаётся нетронутой (stale-but-consistent).
func (s *Store) Refresh(ctx context.Context) error {
	var (
		orders []domain.Order
		err    error
	)
	if s.vendorID == "" {
		orders, err = s.gateway.Orders(ctx)
	} else {
		orders, err = s.gateway.OrdersByVendor(ctx, s.vendorID)
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to refresh orders")
		return err
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()

	s.metrics.RecordFetch(len(orders))
	s.logger.WithField("count", len(orders)).Debug("orders refreshed")
	return nil
}

// Orders возвращает копию текущего снимка в порядке выдачи бэкенда.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]domain.Order, len(s.orders))
	copy(snapshot, s.orders)
	return snapshot
}

// Len возвращает размер текущего снимка.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Get ищет заказ в текущем снимке, не обращаясь к бэкенду.
func (s *Store) Get(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, order := range s.orders {
		if order.ID == id {
			return order, true
		}
	}
	return domain.Order{}, false
}

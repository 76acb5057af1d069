package dashboard

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/metrics"
)

// Snapshot — состояние дашборда после одной загрузки: данные вендора,
// свежие выборки и пересчитанные по ним агрегаты.
type Snapshot struct {
	VendorID   string
	VendorName string
	Stats      VendorStats
	Orders     []domain.Order
	Products   []domain.Product
}

// Service загружает данные вендорского дашборда через гейтвей бэкенда.
type Service struct {
	orders   domain.OrderGateway
	products domain.ProductGateway
	users    domain.UserGateway
	metrics  *metrics.OrderMetrics
	logger   *log.Entry
}

// NewService конструирует сервис дашборда.
func NewService(
	orders domain.OrderGateway,
	products domain.ProductGateway,
	users domain.UserGateway,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "vendor-dashboard")
	}
	return &Service{
		orders:   orders,
		products: products,
		users:    users,
		metrics:  m,
		logger:   logger,
	}
}

// Load выполняет полную загрузку дашборда: сначала данные вендора, затем
// его заказы и товары. Вызовы идут последовательно; семантически порядок
// между заказами и товарами не важен, важно лишь, что агрегаты считаются
// по завершённым выборкам. Недоступность карточки вендора не фатальна —
// дашборд остаётся без имени; сбой выборок заказов или товаров возвращает
// ошибку, и вызывающая сторона сохраняет прежний снимок.
func (s *Service) Load(ctx context.Context, vendorID string) (Snapshot, error) {
	if vendorID == "" {
		return Snapshot{}, domain.ErrVendorIDRequired
	}

	snapshot := Snapshot{VendorID: vendorID}

	user, err := s.users.UserByID(ctx, vendorID)
	switch {
	case err == nil:
		snapshot.VendorName = user.Name
	case errors.Is(err, domain.ErrUserNotFound):
		s.logger.WithField("vendor_id", vendorID).Warn("vendor details not found")
	default:
		s.logger.WithError(err).WithField("vendor_id", vendorID).Warn("failed to fetch vendor details")
	}

	orders, err := s.orders.OrdersByVendor(ctx, vendorID)
	if err != nil {
		s.logger.WithError(err).WithField("vendor_id", vendorID).Error("failed to fetch vendor orders")
		return Snapshot{}, err
	}

	products, err := s.products.ProductsByVendor(ctx, vendorID)
	if err != nil {
		s.logger.WithError(err).WithField("vendor_id", vendorID).Error("failed to fetch vendor products")
		return Snapshot{}, err
	}

	snapshot.Orders = orders
	snapshot.Products = products
	snapshot.Stats = Compute(orders, products, vendorID)

	s.metrics.RecordDashboard()
	s.logger.WithFields(log.Fields{
		"vendor_id":      vendorID,
		"orders":         len(orders),
		"products":       len(products),
		"pending_orders": snapshot.Stats.PendingOrders,
	}).Debug("dashboard loaded")

	return snapshot, nil
}

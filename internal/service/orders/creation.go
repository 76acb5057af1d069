package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/metrics"
)

// CartLine — одна строка корзины: товар и выбранное количество.
type CartLine struct {
	Product  domain.Product
	Quantity int32
}

// Total возвращает стоимость строки: цена за единицу * количество.
func (l CartLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt32(l.Quantity))
}

// Cart накапливает выбор товаров перед созданием заказа.
// Количество в строке никогда не опускается ниже единицы: декремент на
// единице зажимается, а не отклоняется.
type Cart struct {
	lines []CartLine
}

// NewCart возвращает пустую корзину.
func NewCart() *Cart {
	return &Cart{}
}

// Add кладёт товар в корзину. Повторное добавление того же товара
// увеличивает количество существующей строки. Количество меньше единицы
// зажимается до единицы.
func (c *Cart) Add(product domain.Product, quantity int32) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, CartLine{Product: product, Quantity: quantity})
}

// Increment увеличивает количество строки на единицу.
func (c *Cart) Increment(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity++
			return
		}
	}
}

// Decrement уменьшает количество строки на единицу, но не ниже единицы.
func (c *Cart) Decrement(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			if c.lines[i].Quantity > 1 {
				c.lines[i].Quantity--
			}
			return
		}
	}
}

// Remove убирает строку из корзины целиком.
func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines возвращает копию строк корзины в порядке добавления.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Total возвращает суммарную стоимость корзины.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

// Empty сообщает, пуста ли корзина.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Creator собирает заказ из корзины и отправляет его в бэкенд.
type Creator struct {
	gateway   domain.OrderGateway
	publisher domain.EventPublisher
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewCreator конструирует движок создания заказов.
func NewCreator(
	gateway domain.OrderGateway,
	publisher domain.EventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Creator {
	if logger == nil {
		logger = log.WithField("component", "order-creator")
	}
	return &Creator{
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Create валидирует входные данные, собирает заказ со статусом PURCHASED
// и сохраняет его через бэкенд. Прекондиции (непустой покупатель, адрес и
// корзина) проверяются до любого сетевого вызова.
func (s *Creator) Create(ctx context.Context, customerID, address string, cart *Cart) (domain.Order, error) {
	if customerID == "" {
		return domain.Order{}, domain.ErrCustomerRequired
	}
	if address == "" {
		return domain.Order{}, domain.ErrAddressRequired
	}
	if cart == nil || cart.Empty() {
		return domain.Order{}, domain.ErrItemsRequired
	}

	order := buildOrder(customerID, address, cart.Lines())
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		// Корзина зажимает количества, поэтому сюда попадает только
		// некорректный каталог (например, отрицательная цена).
		return domain.Order{}, errs[0]
	}

	created, err := s.gateway.CreateOrder(ctx, order)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("failed to create order")
		return domain.Order{}, err
	}

	s.metrics.RecordOrderCreated()
	if s.publisher != nil {
		if err := s.publisher.PublishOrderEvent(domain.EventOrderCreated, created.ID, created.CustomerID, created.Status); err != nil {
			s.logger.WithError(err).Warn("failed to publish order created event")
		}
	}

	s.logger.WithFields(log.Fields{
		"order_id":    created.ID,
		"customer_id": created.CustomerID,
		"items":       len(created.Items),
	}).Info("order created")
	return created, nil
}

// buildOrder переносит идентификацию товара и цену за единицу в позиции
// заказа и считает итоговые суммы.
func buildOrder(customerID, address string, lines []CartLine) domain.Order {
	now := time.Now().UTC()

	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		lineTotal := line.Total()
		items = append(items, domain.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			VendorID:    line.Product.VendorID,
			VendorName:  line.Product.VendorName,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			TotalPrice:  lineTotal,
			Status:      domain.ItemStatusPending,
		})
		total = total.Add(lineTotal)
	}

	return domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Address:    address,
		Status:     domain.OrderStatusPurchased,
		TotalPrice: total,
		Note:       "",
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

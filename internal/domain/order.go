package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает агрегатный статус заказа на маркетплейсе.
// Значения совпадают с wire-форматом бэкенда, включая пробел
// в "PARTIALLY DELIVERED".
type OrderStatus string

const (
	// OrderStatusPurchased — заказ оформлен покупателем, обработка не начата.
	OrderStatusPurchased OrderStatus = "PURCHASED"
	// OrderStatusProcessing — заказ взят в обработку.
	OrderStatusProcessing OrderStatus = "PROCESSING"
	// OrderStatusPartiallyDelivered — доставлена часть позиций (минимум одним вендором).
	OrderStatusPartiallyDelivered OrderStatus = "PARTIALLY DELIVERED"
	// OrderStatusDelivered — все позиции заказа доставлены.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPurchased, OrderStatusProcessing, OrderStatusPartiallyDelivered,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// TransitionTarget сообщает, допустим ли статус как цель ручного перевода.
// PURCHASED назначается только при создании заказа и целью перевода не бывает.
func (s OrderStatus) TransitionTarget() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusPartiallyDelivered,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ItemStatus описывает статус доставки отдельной позиции.
// Он независим от агрегатного статуса заказа.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "Pending"
	ItemStatusDelivered ItemStatus = "Delivered"
)

// OrderItem представляет одну позицию заказа. Позиция принадлежит ровно
// одному вендору; заказ может содержать позиции нескольких вендоров.
type OrderItem struct {
	ProductID   string
	ProductName string
	VendorID    string
	VendorName  string
	// Quantity — количество единиц товара, всегда > 0.
	Quantity int32
	// Price — цена за единицу.
	Price decimal.Decimal
	// TotalPrice = Price * Quantity, фиксируется на момент создания заказа.
	TotalPrice decimal.Decimal
	Status     ItemStatus
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID         string
	CustomerID string
	Address    string
	Status     OrderStatus
	// TotalPrice — сумма TotalPrice всех позиций на момент создания.
	// После создания не перепроверяется.
	TotalPrice decimal.Decimal
	Note       string
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.Address == "" {
		errs = append(errs, ErrAddressRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalPrice.IsNegative() {
		errs = append(errs, ErrTotalNegative)
	}

	// Сверяем сумму заказа с суммой позиций.
	calc := decimal.Zero
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc = calc.Add(item.TotalPrice)
	}
	if !calc.Equal(o.TotalPrice) {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}

// VendorItems возвращает позиции заказа, принадлежащие указанному вендору,
// в исходном порядке.
func (o *Order) VendorItems(vendorID string) []OrderItem {
	items := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			items = append(items, item)
		}
	}
	return items
}

// HasVendorItems сообщает, содержит ли заказ хотя бы одну позицию вендора.
func (o *Order) HasVendorItems(vendorID string) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

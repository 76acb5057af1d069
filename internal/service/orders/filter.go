// Package orders реализует операции админских и вендорских экранов над
// заказами: фильтрацию, переводы статусов и создание заказа.
package orders

import (
	"strings"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// StatusFilter — встроенный статус-предикат списка заказов.
type StatusFilter string

const (
	// FilterAll не накладывает ограничений на статус.
	FilterAll StatusFilter = "all"
	// FilterPartiallyDelivered оставляет только частично доставленные заказы.
	FilterPartiallyDelivered StatusFilter = "partially-delivered"
)

// ParseStatusFilter разбирает значение фильтра из запроса.
// Неизвестные значения трактуются как FilterAll.
func ParseStatusFilter(raw string) StatusFilter {
	if StatusFilter(strings.ToLower(strings.TrimSpace(raw))) == FilterPartiallyDelivered {
		return FilterPartiallyDelivered
	}
	return FilterAll
}

func (f StatusFilter) matches(status domain.OrderStatus) bool {
	if f == FilterPartiallyDelivered {
		return status == domain.OrderStatusPartiallyDelivered
	}
	return true
}

// Filter выводит отображаемое подмножество заказов из полной коллекции.
// Поиск (case-insensitive substring по ID заказа и ID покупателя) и
// статус-фильтр применяются как пересечение; выборка всегда строится
// заново от полной коллекции, поэтому переключение фильтра не теряет
// текущую поисковую строку. Порядок исходной коллекции сохраняется.
func Filter(orders []domain.Order, query string, filter StatusFilter) []domain.Order {
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if !filter.matches(order.Status) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(order.ID), query) &&
			!strings.Contains(strings.ToLower(order.CustomerID), query) {
			continue
		}
		result = append(result, order)
	}
	return result
}

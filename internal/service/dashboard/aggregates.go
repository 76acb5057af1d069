// Package dashboard считает агрегаты вендорского дашборда по заказам и
// каталогу. Все вычисления — чистые редукции без мутаций: при каждом
// обновлении исходных данных агрегаты пересчитываются целиком.
package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// VendorStats — производные метрики дашборда вендора.
type VendorStats struct {
	// TotalProducts — суммарное количество единиц товара вендора во всех заказах.
	TotalProducts int64
	// PendingOrders — число заказов со статусом PURCHASED, содержащих
	// хотя бы одну позицию вендора.
	PendingOrders int
	// TotalSales — сумма TotalPrice позиций вендора, округлённая до 2 знаков.
	TotalSales decimal.Decimal
	// LowStock — число товаров вендора с флагом IsLowStock.
	LowStock int
}

// OrderStats редуцирует заказы в метрики вендора: количество единиц,
// pending-заказы и сумму продаж.
func OrderStats(orders []domain.Order, vendorID string) (totalProducts int64, pendingOrders int, totalSales decimal.Decimal) {
	totalSales = decimal.Zero
	for _, order := range orders {
		vendorItems := order.VendorItems(vendorID)
		for _, item := range vendorItems {
			totalProducts += int64(item.Quantity)
			totalSales = totalSales.Add(item.TotalPrice)
		}
		if len(vendorItems) > 0 && order.Status == domain.OrderStatusPurchased {
			pendingOrders++
		}
	}
	return totalProducts, pendingOrders, totalSales.Round(2)
}

// LowStockCount считает товары с выставленным флагом IsLowStock.
// Источник истины по флагу — бэкенд.
func LowStockCount(products []domain.Product) int {
	count := 0
	for _, p := range products {
		if p.IsLowStock {
			count++
		}
	}
	return count
}

// Compute собирает полный набор агрегатов из заказов и каталога вендора.
func Compute(orders []domain.Order, products []domain.Product, vendorID string) VendorStats {
	totalProducts, pendingOrders, totalSales := OrderStats(orders, vendorID)
	return VendorStats{
		TotalProducts: totalProducts,
		PendingOrders: pendingOrders,
		TotalSales:    totalSales,
		LowStock:      LowStockCount(products),
	}
}

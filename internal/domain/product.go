package domain

import "github.com/shopspring/decimal"

// Product описывает товар каталога. Для этого сервиса каталог read-only:
// источником истины по стоку и флагу IsLowStock остаётся бэкенд.
type Product struct {
	ID         string
	Name       string
	Price      decimal.Decimal
	VendorID   string
	VendorName string
	Stock      int32
	IsLowStock bool
}

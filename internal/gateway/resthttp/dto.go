package resthttp

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// DTO повторяют wire-формат бэкенда маркетплейса.

type orderDTO struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Address         string          `json:"address"`
	Items           []orderItemDTO  `json:"items"`
	TotalOrderPrice decimal.Decimal `json:"totalOrderPrice"`
	OrderStatus     string          `json:"orderStatus"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt,omitempty"`
}

type orderItemDTO struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	VendorID    string          `json:"vendorId"`
	VendorName  string          `json:"vendorName"`
	Quantity    int32           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      string          `json:"status,omitempty"`
}

type statusUpdateDTO struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type productDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	VendorID   string          `json:"vendorId"`
	VendorName string          `json:"vendorName"`
	Stock      int32           `json:"stock"`
	IsLowStock bool            `json:"isLowStock"`
}

type reviewDTO struct {
	ID         string    `json:"id"`
	VendorID   string    `json:"vendorId"`
	CustomerID string    `json:"customerId"`
	Comment    string    `json:"comment"`
	Rating     int32     `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (d reviewDTO) toDomain() domain.Review {
	return domain.Review{
		ID:         d.ID,
		VendorID:   d.VendorID,
		CustomerID: d.CustomerID,
		Comment:    d.Comment,
		Rating:     d.Rating,
		CreatedAt:  d.CreatedAt,
	}
}

type averageRatingDTO struct {
	AverageRating decimal.Decimal `json:"averageRating"`
}

type userDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (d orderDTO) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VendorID:    item.VendorID,
			VendorName:  item.VendorName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalPrice:  item.TotalPrice,
			Status:      domain.ItemStatus(item.Status),
		})
	}
	return domain.Order{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Address:    d.Address,
		Status:     domain.OrderStatus(d.OrderStatus),
		TotalPrice: d.TotalOrderPrice,
		Note:       d.Note,
		Items:      items,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func orderToDTO(order domain.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VendorID:    item.VendorID,
			VendorName:  item.VendorName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalPrice:  item.TotalPrice,
			Status:      string(item.Status),
		})
	}
	return orderDTO{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Address:         order.Address,
		Items:           items,
		TotalOrderPrice: order.TotalPrice,
		OrderStatus:     string(order.Status),
		Note:            order.Note,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func ordersFromDTO(dto []orderDTO) []domain.Order {
	orders := make([]domain.Order, 0, len(dto))
	for _, d := range dto {
		orders = append(orders, d.toDomain())
	}
	return orders
}

func productsFromDTO(dto []productDTO) []domain.Product {
	products := make([]domain.Product, 0, len(dto))
	for _, d := range dto {
		products = append(products, domain.Product{
			ID:         d.ID,
			Name:       d.Name,
			Price:      d.Price,
			VendorID:   d.VendorID,
			VendorName: d.VendorName,
			Stock:      d.Stock,
			IsLowStock: d.IsLowStock,
		})
	}
	return products
}

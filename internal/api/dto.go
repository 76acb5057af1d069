package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/dashboard"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/reviews"
)

// Wire-формат ответов повторяет формат upstream-бэкенда маркетплейса,
// чтобы фронтенды могли переключаться между ним и этим сервисом.

type orderResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Address         string          `json:"address"`
	Items           []itemResponse  `json:"items"`
	TotalOrderPrice decimal.Decimal `json:"totalOrderPrice"`
	OrderStatus     string          `json:"orderStatus"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt,omitempty"`
}

type itemResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	VendorID    string          `json:"vendorId"`
	VendorName  string          `json:"vendorName"`
	Quantity    int32           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      string          `json:"status,omitempty"`
}

// vendorOrderResponse дополняет заказ срезом позиций запрошенного вендора.
type vendorOrderResponse struct {
	orderResponse
	VendorItems []itemResponse `json:"vendorItems"`
}

type productResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	VendorID   string          `json:"vendorId"`
	VendorName string          `json:"vendorName"`
	Stock      int32           `json:"stock"`
	IsLowStock bool            `json:"isLowStock"`
}

type reviewResponse struct {
	ID         string    `json:"id"`
	VendorID   string    `json:"vendorId"`
	CustomerID string    `json:"customerId"`
	Comment    string    `json:"comment"`
	Rating     int32     `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

type vendorReviewsResponse struct {
	VendorID      string           `json:"vendorId"`
	Reviews       []reviewResponse `json:"reviews"`
	AverageRating decimal.Decimal  `json:"averageRating"`
}

type vendorStatsResponse struct {
	TotalProducts int64           `json:"totalProducts"`
	PendingOrders int             `json:"pendingOrders"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	LowStock      int             `json:"lowStock"`
}

type dashboardResponse struct {
	VendorID   string              `json:"vendorId"`
	VendorName string              `json:"vendorName"`
	Stats      vendorStatsResponse `json:"stats"`
	Orders     []orderResponse     `json:"orders"`
	Products   []productResponse   `json:"products"`
}

type createOrderRequest struct {
	CustomerID string                 `json:"customerId"`
	Address    string                 `json:"address"`
	Items      []createOrderItemInput `json:"items"`
}

type createOrderItemInput struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	VendorID    string          `json:"vendorId"`
	VendorName  string          `json:"vendorName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int32           `json:"quantity"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func itemToResponse(item domain.OrderItem) itemResponse {
	return itemResponse{
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		VendorID:    item.VendorID,
		VendorName:  item.VendorName,
		Quantity:    item.Quantity,
		Price:       item.Price,
		TotalPrice:  item.TotalPrice,
		Status:      string(item.Status),
	}
}

func itemsToResponse(items []domain.OrderItem) []itemResponse {
	result := make([]itemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, itemToResponse(item))
	}
	return result
}

func orderToResponse(order domain.Order) orderResponse {
	return orderResponse{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Address:         order.Address,
		Items:           itemsToResponse(order.Items),
		TotalOrderPrice: order.TotalPrice,
		OrderStatus:     string(order.Status),
		Note:            order.Note,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func ordersToResponse(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, orderToResponse(order))
	}
	return result
}

func vendorOrdersToResponse(orders []domain.Order, vendorID string) []vendorOrderResponse {
	result := make([]vendorOrderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, vendorOrderResponse{
			orderResponse: orderToResponse(order),
			VendorItems:   itemsToResponse(order.VendorItems(vendorID)),
		})
	}
	return result
}

func productsToResponse(products []domain.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, p := range products {
		result = append(result, productResponse{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price,
			VendorID:   p.VendorID,
			VendorName: p.VendorName,
			Stock:      p.Stock,
			IsLowStock: p.IsLowStock,
		})
	}
	return result
}

func reviewsToResponse(r reviews.VendorReviews) vendorReviewsResponse {
	list := make([]reviewResponse, 0, len(r.Reviews))
	for _, review := range r.Reviews {
		list = append(list, reviewResponse{
			ID:         review.ID,
			VendorID:   review.VendorID,
			CustomerID: review.CustomerID,
			Comment:    review.Comment,
			Rating:     review.Rating,
			CreatedAt:  review.CreatedAt,
		})
	}
	return vendorReviewsResponse{
		VendorID:      r.VendorID,
		Reviews:       list,
		AverageRating: r.AverageRating,
	}
}

func snapshotToResponse(s dashboard.Snapshot) dashboardResponse {
	return dashboardResponse{
		VendorID:   s.VendorID,
		VendorName: s.VendorName,
		Stats: vendorStatsResponse{
			TotalProducts: s.Stats.TotalProducts,
			PendingOrders: s.Stats.PendingOrders,
			TotalSales:    s.Stats.TotalSales,
			LowStock:      s.Stats.LowStock,
		},
		Orders:   ordersToResponse(s.Orders),
		Products: productsToResponse(s.Products),
	}
}

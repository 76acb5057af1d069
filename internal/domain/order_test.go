package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// helper для создания базового заказа с позициями двух вендоров.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		Address:    "221B Baker Street",
		Status:     domain.OrderStatusPurchased,
		TotalPrice: decimal.NewFromInt(65),
		Items: []domain.OrderItem{
			{
				ProductID:   "product-1",
				ProductName: "Keyboard",
				VendorID:    "vendor-1",
				VendorName:  "Acme",
				Quantity:    2,
				Price:       decimal.NewFromInt(10),
				TotalPrice:  decimal.NewFromInt(20),
				Status:      domain.ItemStatusPending,
			},
			{
				ProductID:   "product-2",
				ProductName: "Mouse",
				VendorID:    "vendor-2",
				VendorName:  "Globex",
				Quantity:    3,
				Price:       decimal.NewFromInt(15),
				TotalPrice:  decimal.NewFromInt(45),
				Status:      domain.ItemStatusPending,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no customer",
			mut: func(o *domain.Order) {
				o.CustomerID = ""
			},
		},
		{
			name: "no address",
			mut: func(o *domain.Order) {
				o.Address = ""
			},
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Quantity = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Price = decimal.NewFromInt(-5)
			},
		},
		{
			name: "total mismatch",
			mut: func(o *domain.Order) {
				o.TotalPrice = decimal.NewFromInt(999)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			// Изменяем состояние согласно сценарию.
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	valid := []domain.OrderStatus{
		domain.OrderStatusPurchased,
		domain.OrderStatusProcessing,
		domain.OrderStatusPartiallyDelivered,
		domain.OrderStatusDelivered,
		domain.OrderStatusCancelled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected status %q to be valid", s)
		}
	}

	if domain.OrderStatus("SHIPPED").Valid() {
		t.Error("expected unknown status to be invalid")
	}
	if domain.OrderStatus("").Valid() {
		t.Error("expected empty status to be invalid")
	}
}

func TestOrderStatus_TransitionTarget(t *testing.T) {
	if domain.OrderStatusPurchased.TransitionTarget() {
		t.Error("PURCHASED must not be a manual transition target")
	}
	targets := []domain.OrderStatus{
		domain.OrderStatusProcessing,
		domain.OrderStatusPartiallyDelivered,
		domain.OrderStatusDelivered,
		domain.OrderStatusCancelled,
	}
	for _, s := range targets {
		if !s.TransitionTarget() {
			t.Errorf("expected status %q to be a transition target", s)
		}
	}
}

func TestOrderVendorItems(t *testing.T) {
	order := makeOrder()

	items := order.VendorItems("vendor-1")
	if len(items) != 1 {
		t.Fatalf("expected 1 vendor item, got %d", len(items))
	}
	if items[0].ProductID != "product-1" {
		t.Errorf("unexpected vendor item: %+v", items[0])
	}

	if len(order.VendorItems("vendor-3")) != 0 {
		t.Error("expected no items for unknown vendor")
	}

	if !order.HasVendorItems("vendor-2") {
		t.Error("expected order to contain items of vendor-2")
	}
	if order.HasVendorItems("vendor-3") {
		t.Error("expected order to contain no items of vendor-3")
	}
}

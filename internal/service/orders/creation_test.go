package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/gateway/memory"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/orders"
)

func productFixture(id string, price int64, vendorID string) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "product " + id,
		Price:      decimal.NewFromInt(price),
		VendorID:   vendorID,
		VendorName: "vendor " + vendorID,
		Stock:      50,
	}
}

func TestCart_QuantityClampedAtOne(t *testing.T) {
	cart := orders.NewCart()
	cart.Add(productFixture("p-1", 10, "v-1"), 1)

	// Декремент на единице зажимается, а не отклоняется.
	cart.Decrement("p-1")
	cart.Decrement("p-1")

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int32(1), lines[0].Quantity)
}

func TestCart_AddClampsNonPositiveQuantity(t *testing.T) {
	cart := orders.NewCart()
	cart.Add(productFixture("p-1", 10, "v-1"), 0)
	cart.Add(productFixture("p-2", 5, "v-1"), -3)

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int32(1), lines[0].Quantity)
	assert.Equal(t, int32(1), lines[1].Quantity)
}

func TestCart_AddMergesSameProduct(t *testing.T) {
	cart := orders.NewCart()
	product := productFixture("p-1", 10, "v-1")
	cart.Add(product, 2)
	cart.Add(product, 3)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int32(5), lines[0].Quantity)
}

func TestCart_IncrementAndRemove(t *testing.T) {
	cart := orders.NewCart()
	cart.Add(productFixture("p-1", 10, "v-1"), 1)
	cart.Add(productFixture("p-2", 5, "v-2"), 1)

	cart.Increment("p-1")
	require.Equal(t, int32(2), cart.Lines()[0].Quantity)

	cart.Remove("p-1")
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p-2", lines[0].Product.ID)
}

func TestCart_Total(t *testing.T) {
	cart := orders.NewCart()
	cart.Add(productFixture("p-1", 10, "v-1"), 2)
	cart.Add(productFixture("p-2", 5, "v-2"), 1)

	assert.True(t, cart.Total().Equal(decimal.NewFromInt(25)), "total = %s", cart.Total())
}

func TestCreate_BuildsPurchasedOrderWithTotals(t *testing.T) {
	gw := memory.NewGateway()
	creator := orders.NewCreator(gw, nil, nil, loggerForTests())

	cart := orders.NewCart()
	cart.Add(productFixture("p-1", 10, "v-1"), 2)
	cart.Add(productFixture("p-2", 5, "v-2"), 1)

	order, err := creator.Create(context.Background(), "customer-1", "742 Evergreen Terrace", cart)

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusPurchased, order.Status)
	assert.Empty(t, order.Note)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(25)), "total = %s", order.TotalPrice)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "p-1", order.Items[0].ProductID)
	assert.Equal(t, "v-1", order.Items[0].VendorID)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, domain.ItemStatusPending, order.Items[0].Status)
	assert.True(t, order.Items[1].TotalPrice.Equal(decimal.NewFromInt(5)))

	// Заказ сохранён в бэкенде.
	stored, err := gw.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}

func TestCreate_ValidationBeforeAnyCall(t *testing.T) {
	cart := orders.NewCart()
	cart.Add(productFixture("p-1", 10, "v-1"), 1)

	cases := []struct {
		name       string
		customerID string
		address    string
		cart       *orders.Cart
		wantErr    error
	}{
		{name: "empty customer", customerID: "", address: "addr", cart: cart, wantErr: domain.ErrCustomerRequired},
		{name: "empty address", customerID: "customer-1", address: "", cart: cart, wantErr: domain.ErrAddressRequired},
		{name: "empty cart", customerID: "customer-1", address: "addr", cart: orders.NewCart(), wantErr: domain.ErrItemsRequired},
		{name: "nil cart", customerID: "customer-1", address: "addr", cart: nil, wantErr: domain.ErrItemsRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := memory.NewGateway()
			creator := orders.NewCreator(gw, nil, nil, loggerForTests())

			_, err := creator.Create(context.Background(), tc.customerID, tc.address, tc.cart)

			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, domain.IsValidation(err))

			stored, gerr := gw.Orders(context.Background())
			require.NoError(t, gerr)
			assert.Empty(t, stored, "no order may be created on validation failure")
		})
	}
}

func TestCreate_PublishesOrderCreatedEvent(t *testing.T) {
	gw := memory.NewGateway()
	pub := &recordingPublisher{}
	creator := orders.NewCreator(gw, pub, nil, loggerForTests())

	cart := orders.NewCart()
	cart.Add(productFixture("p-1", 10, "v-1"), 1)

	order, err := creator.Create(context.Background(), "customer-1", "addr", cart)

	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventOrderCreated, pub.events[0].eventType)
	assert.Equal(t, order.ID, pub.events[0].orderID)
	assert.Equal(t, domain.OrderStatusPurchased, pub.events[0].status)
}

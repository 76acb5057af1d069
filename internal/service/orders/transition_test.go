package orders_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/gateway/memory"
	"github.com/vladislavdragonenkov/vendorhub/internal/service/orders"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

// recordingGateway считает обращения к бэкенду и позволяет подменять ответы.
type recordingGateway struct {
	mu sync.Mutex

	statusCalls  int
	partialCalls int
	lookupCalls  int

	order     domain.Order
	lookupErr error
	updateErr error
}

func (g *recordingGateway) Orders(context.Context) ([]domain.Order, error) { return nil, nil }

func (g *recordingGateway) OrdersByVendor(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}

func (g *recordingGateway) OrderByID(_ context.Context, id string) (domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookupCalls++
	if g.lookupErr != nil {
		return domain.Order{}, g.lookupErr
	}
	if g.order.ID != id {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return g.order, nil
}

func (g *recordingGateway) UpdateStatus(_ context.Context, _ string, _ domain.OrderStatus, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls++
	return g.updateErr
}

func (g *recordingGateway) UpdatePartialDelivery(_ context.Context, _, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.partialCalls++
	if g.updateErr != nil {
		return "", g.updateErr
	}
	return "ok", nil
}

func (g *recordingGateway) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	return order, nil
}

type recordedEvent struct {
	eventType string
	orderID   string
	status    domain.OrderStatus
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(eventType, orderID, _ string, status domain.OrderStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{eventType: eventType, orderID: orderID, status: status})
	return p.err
}

func TestApplyTransition_ValidationBeforeAnyCall(t *testing.T) {
	cases := []struct {
		name    string
		orderID string
		status  domain.OrderStatus
		note    string
		wantErr error
	}{
		{name: "empty status", orderID: "order-1", status: "", note: "called customer", wantErr: domain.ErrStatusRequired},
		{name: "empty note", orderID: "order-1", status: domain.OrderStatusDelivered, note: "", wantErr: domain.ErrNoteRequired},
		{name: "blank note", orderID: "order-1", status: domain.OrderStatusDelivered, note: "   ", wantErr: domain.ErrNoteRequired},
		{name: "unknown status", orderID: "order-1", status: "SHIPPED", note: "note", wantErr: domain.ErrStatusUnknown},
		{name: "purchased as target", orderID: "order-1", status: domain.OrderStatusPurchased, note: "note", wantErr: domain.ErrStatusUnknown},
		{name: "empty order id", orderID: "", status: domain.OrderStatusDelivered, note: "note", wantErr: domain.ErrOrderIDRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &recordingGateway{}
			mgr := orders.NewTransitionManager(gw, nil, nil, loggerForTests())

			err := mgr.ApplyTransition(context.Background(), tc.orderID, tc.status, tc.note)

			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, domain.IsValidation(err), "expected validation classification")
			assert.Zero(t, gw.statusCalls, "no backend call may be issued on validation failure")
		})
	}
}

func TestApplyTransition_Success(t *testing.T) {
	gw := &recordingGateway{}
	pub := &recordingPublisher{}
	mgr := orders.NewTransitionManager(gw, pub, nil, loggerForTests())

	err := mgr.ApplyTransition(context.Background(), "order-1", domain.OrderStatusProcessing, "picked up by warehouse")

	require.NoError(t, err)
	assert.Equal(t, 1, gw.statusCalls)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventOrderStatusChanged, pub.events[0].eventType)
	assert.Equal(t, domain.OrderStatusProcessing, pub.events[0].status)
}

func TestApplyTransition_RemoteErrorPassedThrough(t *testing.T) {
	cause := errors.New("backend unavailable")
	gw := &recordingGateway{updateErr: domain.NewRemoteError("orders.update_status", cause)}
	mgr := orders.NewTransitionManager(gw, nil, nil, loggerForTests())

	err := mgr.ApplyTransition(context.Background(), "order-1", domain.OrderStatusCancelled, "customer request")

	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))
	assert.ErrorIs(t, err, cause)
}

func TestApplyTransition_PublishFailureDoesNotFailOperation(t *testing.T) {
	gw := &recordingGateway{}
	pub := &recordingPublisher{err: errors.New("broker down")}
	mgr := orders.NewTransitionManager(gw, pub, nil, loggerForTests())

	err := mgr.ApplyTransition(context.Background(), "order-1", domain.OrderStatusDelivered, "left at the door")
	require.NoError(t, err)
}

func TestMarkPartiallyDelivered_RefusedWhenAlreadyDelivered(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderStatusPartiallyDelivered, domain.OrderStatusDelivered} {
		t.Run(string(status), func(t *testing.T) {
			gw := &recordingGateway{order: domain.Order{ID: "order-1", Status: status}}
			mgr := orders.NewTransitionManager(gw, nil, nil, loggerForTests())

			_, err := mgr.MarkPartiallyDelivered(context.Background(), "order-1", "vendor-1")

			require.ErrorIs(t, err, domain.ErrAlreadyDelivered)
			assert.True(t, domain.IsValidation(err))
			assert.Zero(t, gw.partialCalls, "delivery mutation must not be issued")
		})
	}
}

func TestMarkPartiallyDelivered_Success(t *testing.T) {
	gw := memory.NewGateway()
	gw.SeedOrders(domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		Address:    "somewhere",
		Status:     domain.OrderStatusPurchased,
		TotalPrice: decimal.NewFromInt(30),
		Items: []domain.OrderItem{
			{ProductID: "p-1", VendorID: "vendor-1", Quantity: 1, Price: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(10), Status: domain.ItemStatusPending},
			{ProductID: "p-2", VendorID: "vendor-2", Quantity: 1, Price: decimal.NewFromInt(20), TotalPrice: decimal.NewFromInt(20), Status: domain.ItemStatusPending},
		},
	})
	pub := &recordingPublisher{}
	mgr := orders.NewTransitionManager(gw, pub, nil, loggerForTests())

	message, err := mgr.MarkPartiallyDelivered(context.Background(), "order-1", "vendor-1")

	require.NoError(t, err)
	assert.NotEmpty(t, message)

	updated, err := gw.OrderByID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPartiallyDelivered, updated.Status)
	assert.Equal(t, domain.ItemStatusDelivered, updated.Items[0].Status, "vendor-1 item must be delivered")
	assert.Equal(t, domain.ItemStatusPending, updated.Items[1].Status, "other vendor's item must stay pending")

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventOrderPartiallyDelivered, pub.events[0].eventType)
}

func TestMarkPartiallyDelivered_Validation(t *testing.T) {
	gw := &recordingGateway{}
	mgr := orders.NewTransitionManager(gw, nil, nil, loggerForTests())

	_, err := mgr.MarkPartiallyDelivered(context.Background(), "", "vendor-1")
	require.ErrorIs(t, err, domain.ErrOrderIDRequired)

	_, err = mgr.MarkPartiallyDelivered(context.Background(), "order-1", "")
	require.ErrorIs(t, err, domain.ErrVendorIDRequired)

	assert.Zero(t, gw.lookupCalls)
	assert.Zero(t, gw.partialCalls)
}

func TestMarkPartiallyDelivered_OrderNotFound(t *testing.T) {
	gw := &recordingGateway{}
	mgr := orders.NewTransitionManager(gw, nil, nil, loggerForTests())

	_, err := mgr.MarkPartiallyDelivered(context.Background(), "missing", "vendor-1")

	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Zero(t, gw.partialCalls)
}

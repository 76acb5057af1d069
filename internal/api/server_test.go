package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/gateway/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Gateway) {
	t.Helper()

	logger := log.New()
	logger.SetLevel(log.PanicLevel)

	gateway := memory.NewGateway()
	gateway.SeedOrders(
		domain.Order{
			ID:         "ord-1",
			CustomerID: "cust-alice",
			Address:    "Lenina 1",
			Status:     domain.OrderStatusPurchased,
			TotalPrice: decimal.RequireFromString("30"),
			Items: []domain.OrderItem{
				{
					ProductID: "p-1", ProductName: "Keyboard", VendorID: "vendor-a", VendorName: "Acme",
					Quantity: 2, Price: decimal.RequireFromString("10"),
					TotalPrice: decimal.RequireFromString("20"), Status: domain.ItemStatusPending,
				},
				{
					ProductID: "p-2", ProductName: "Mouse", VendorID: "vendor-b", VendorName: "Bolt",
					Quantity: 1, Price: decimal.RequireFromString("10"),
					TotalPrice: decimal.RequireFromString("10"), Status: domain.ItemStatusPending,
				},
			},
			CreatedAt: time.Now().UTC(),
		},
		domain.Order{
			ID:         "ord-2",
			CustomerID: "cust-bob",
			Address:    "Lenina 2",
			Status:     domain.OrderStatusPartiallyDelivered,
			TotalPrice: decimal.RequireFromString("5"),
			Items: []domain.OrderItem{
				{
					ProductID: "p-3", ProductName: "Cable", VendorID: "vendor-a", VendorName: "Acme",
					Quantity: 1, Price: decimal.RequireFromString("5"),
					TotalPrice: decimal.RequireFromString("5"), Status: domain.ItemStatusDelivered,
				},
			},
			CreatedAt: time.Now().UTC(),
		},
	)
	gateway.SeedProducts(domain.Product{
		ID: "p-1", Name: "Keyboard", Price: decimal.RequireFromString("10"),
		VendorID: "vendor-a", VendorName: "Acme", Stock: 3, IsLowStock: true,
	})
	gateway.SeedReviews(domain.Review{
		ID: "rev-1", VendorID: "vendor-a", CustomerID: "cust-alice", Comment: "fast delivery", Rating: 5,
	})
	gateway.SeedUsers(domain.User{ID: "vendor-a", Name: "Acme Store", Role: "vendor"})

	server := NewServer(gateway, nil, nil, log.NewEntry(logger))
	return server, gateway
}

func doRequest(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func TestListOrders(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []orderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "ord-1", list[0].ID)
	assert.Equal(t, "PURCHASED", list[0].OrderStatus)
}

func TestListOrders_FilterAndQueryIntersect(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/orders?query=bob&filter=partially-delivered", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []orderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "ord-2", list[0].ID)

	// Поиск и фильтр пересекаются: alice не частично доставлена.
	w = doRequest(t, server, http.MethodGet, "/api/orders?query=alice&filter=partially-delivered", "")
	require.Equal(t, http.StatusOK, w.Code)
	list = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Empty(t, list)
}

func TestGetOrder_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrder(t *testing.T) {
	server, gateway := newTestServer(t)

	body := `{
		"customerId": "cust-carol",
		"address": "Lenina 3",
		"items": [
			{"productId": "p-1", "productName": "Keyboard", "vendorId": "vendor-a", "vendorName": "Acme", "price": 10, "quantity": 2}
		]
	}`
	w := doRequest(t, server, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created orderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "PURCHASED", created.OrderStatus)
	assert.True(t, created.TotalOrderPrice.Equal(decimal.RequireFromString("20")))

	stored, err := gateway.OrderByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cust-carol", stored.CustomerID)
}

func TestCreateOrder_Validation(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodPost, "/api/orders", `{"customerId": "", "address": "x", "items": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, server, http.MethodPost, "/api/orders", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	server, gateway := newTestServer(t)

	w := doRequest(t, server, http.MethodPut, "/api/orders/ord-1/status",
		`{"status": "PROCESSING", "note": "picked up by warehouse"}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := gateway.OrderByID(t.Context(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, stored.Status)
	assert.Equal(t, "picked up by warehouse", stored.Note)
}

func TestUpdateStatus_Validation(t *testing.T) {
	server, gateway := newTestServer(t)

	// Пустая заметка отклоняется до обращения к бэкенду.
	w := doRequest(t, server, http.MethodPut, "/api/orders/ord-1/status",
		`{"status": "PROCESSING", "note": "  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// PURCHASED не бывает целью перевода.
	w = doRequest(t, server, http.MethodPut, "/api/orders/ord-1/status",
		`{"status": "PURCHASED", "note": "reset"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := gateway.OrderByID(t.Context(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPurchased, stored.Status)
}

func TestPartialDelivery(t *testing.T) {
	server, gateway := newTestServer(t)

	w := doRequest(t, server, http.MethodPut, "/api/orders/ord-1/partially-delivered/vendor-a", "")
	require.Equal(t, http.StatusOK, w.Code)

	var msg messageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msg))
	assert.Equal(t, "Vendor items marked as delivered", msg.Message)

	stored, err := gateway.OrderByID(t.Context(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPartiallyDelivered, stored.Status)

	// Повторная отметка по тому же заказу отклоняется без мутации.
	w = doRequest(t, server, http.MethodPut, "/api/orders/ord-1/partially-delivered/vendor-b", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVendorOrders(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/vendors/vendor-a/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []vendorOrderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 2)
	require.Len(t, list[0].VendorItems, 1)
	assert.Equal(t, "p-1", list[0].VendorItems[0].ProductID)
	// Полный состав заказа тоже присутствует.
	assert.Len(t, list[0].Items, 2)
}

func TestVendorDashboard(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/vendors/vendor-a/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var dash dashboardResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dash))
	assert.Equal(t, "Acme Store", dash.VendorName)
	assert.Equal(t, int64(3), dash.Stats.TotalProducts)
	assert.Equal(t, 1, dash.Stats.PendingOrders)
	assert.True(t, dash.Stats.TotalSales.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, 1, dash.Stats.LowStock)
}

func TestVendorReviews(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/vendors/vendor-a/reviews", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp vendorReviewsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, "fast delivery", resp.Reviews[0].Comment)
	assert.True(t, resp.AverageRating.Equal(decimal.RequireFromString("5")))
}

// Package resthttp реализует гейтвей поверх REST API upstream-бэкенда.
// Каждый вызов авторизуется bearer-токеном из CredentialSource; ретраев
// нет — сбой возвращается вызывающей стороне как RemoteError.
package resthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// StaticToken — простейший CredentialSource с неизменным токеном.
type StaticToken string

// Token возвращает токен как есть.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Client — REST-клиент бэкенда маркетплейса.
type Client struct {
	baseURL string
	http    *http.Client
	creds   domain.CredentialSource
	metrics *metrics.OrderMetrics
	logger  *log.Entry
}

// NewClient конструирует клиент. m может быть nil.
func NewClient(baseURL string, creds domain.CredentialSource, m *metrics.OrderMetrics, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.WithField("component", "rest-gateway")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		creds:   creds,
		metrics: m,
		logger:  logger,
	}
}

// Orders возвращает полную коллекцию заказов.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var dto []orderDTO
	if err := c.do(ctx, http.MethodGet, "/api/order", nil, &dto, "orders.fetch"); err != nil {
		return nil, err
	}
	return ordersFromDTO(dto), nil
}

// OrdersByVendor возвращает заказы с позициями вендора.
func (c *Client) OrdersByVendor(ctx context.Context, vendorID string) ([]domain.Order, error) {
	var dto []orderDTO
	path := "/api/order/vendor/" + url.PathEscape(vendorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &dto, "orders.fetch_by_vendor"); err != nil {
		return nil, err
	}
	return ordersFromDTO(dto), nil
}

// OrderByID возвращает заказ или ErrOrderNotFound.
func (c *Client) OrderByID(ctx context.Context, id string) (domain.Order, error) {
	var dto orderDTO
	path := "/api/order/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &dto, "orders.fetch_by_id"); err != nil {
		return domain.Order{}, err
	}
	return dto.toDomain(), nil
}

// UpdateStatus выставляет статус и заметку заказа.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, note string) error {
	body := statusUpdateDTO{Status: string(status), Note: note}
	path := "/api/order/" + url.PathEscape(id) + "/status"
	return c.do(ctx, http.MethodPut, path, body, nil, "orders.update_status")
}

// UpdatePartialDelivery помечает позиции вендора доставленными.
func (c *Client) UpdatePartialDelivery(ctx context.Context, id, vendorID string) (string, error) {
	var raw json.RawMessage
	path := "/api/order/" + url.PathEscape(id) + "/partially-delivered/" + url.PathEscape(vendorID)
	if err := c.do(ctx, http.MethodPut, path, struct{}{}, &raw, "orders.update_partial_delivery"); err != nil {
		return "", err
	}
	return decodeMessage(raw), nil
}

// CreateOrder сохраняет новый заказ.
func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created orderDTO
	if err := c.do(ctx, http.MethodPost, "/api/order", orderToDTO(order), &created, "orders.create"); err != nil {
		return domain.Order{}, err
	}
	return created.toDomain(), nil
}

// Products возвращает полный каталог.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var dto []productDTO
	if err := c.do(ctx, http.MethodGet, "/api/product", nil, &dto, "products.fetch"); err != nil {
		return nil, err
	}
	return productsFromDTO(dto), nil
}

// ProductsByVendor возвращает товары вендора.
func (c *Client) ProductsByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	var dto []productDTO
	path := "/api/product/vendor/" + url.PathEscape(vendorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &dto, "products.fetch_by_vendor"); err != nil {
		return nil, err
	}
	return productsFromDTO(dto), nil
}

// ReviewsByVendor возвращает отзывы вендора.
func (c *Client) ReviewsByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	var dto []reviewDTO
	path := "/api/vendor-review/" + url.PathEscape(vendorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &dto, "reviews.fetch_by_vendor"); err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(dto))
	for _, r := range dto {
		reviews = append(reviews, r.toDomain())
	}
	return reviews, nil
}

// AverageRating возвращает среднюю оценку вендора.
func (c *Client) AverageRating(ctx context.Context, vendorID string) (decimal.Decimal, error) {
	var dto averageRatingDTO
	path := "/api/vendor-review/" + url.PathEscape(vendorID) + "/average-rating"
	if err := c.do(ctx, http.MethodGet, path, nil, &dto, "reviews.fetch_average_rating"); err != nil {
		return decimal.Zero, err
	}
	return dto.AverageRating, nil
}

// UserByID возвращает пользователя или ErrUserNotFound.
func (c *Client) UserByID(ctx context.Context, id string) (domain.User, error) {
	var dto userDTO
	path := "/api/user/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &dto, "users.fetch_by_id"); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: dto.ID, Name: dto.Name, Role: dto.Role}, nil
}

// Ping проверяет доступность бэкенда (для health-чека).
func (c *Client) Ping(ctx context.Context) error {
	var dto []orderDTO
	return c.do(ctx, http.MethodGet, "/api/order", nil, &dto, "orders.ping")
}

// do выполняет один HTTP-вызов: авторизация, сериализация, маппинг ошибок.
func (c *Client) do(ctx context.Context, method, path string, in, out any, op string) error {
	started := time.Now()
	defer func() {
		c.metrics.ObserveGateway(op, time.Since(started))
	}()

	token, err := c.creds.Token(ctx)
	if err != nil {
		return domain.NewRemoteError(op, fmt.Errorf("acquire credential: %w", err))
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return domain.NewRemoteError(op, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return domain.NewRemoteError(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("operation", op).Error("backend request failed")
		return domain.NewRemoteError(op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return notFoundFor(op)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithFields(log.Fields{
			"operation": op,
			"status":    resp.StatusCode,
		}).Error("backend returned error status")
		return domain.NewRemoteError(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewRemoteError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// notFoundFor переводит 404 в доменную ошибку по типу операции.
func notFoundFor(op string) error {
	if strings.HasPrefix(op, "users.") {
		return domain.ErrUserNotFound
	}
	return domain.ErrOrderNotFound
}

// decodeMessage извлекает человекочитаемое сообщение из ответа бэкенда:
// либо голая JSON-строка, либо объект с полем message.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil && asObject.Message != "" {
		return asObject.Message
	}
	return string(raw)
}

var _ domain.Gateway = (*Client)(nil)

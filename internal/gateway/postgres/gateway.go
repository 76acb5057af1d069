package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

const (
	queryTimeout = 5 * time.Second

	pgUniqueViolation = "23505"
)

// Gateway реализует domain.Gateway поверх PostgreSQL.
// Драйвер используется в развёртываниях без upstream REST-бэкенда:
// сервис сам владеет таблицами заказов и каталога.
type Gateway struct {
	db *sql.DB
}

// NewGateway создаёт гейтвей поверх открытого Store.
func NewGateway(store *Store) *Gateway {
	return &Gateway{db: store.DB()}
}

var _ domain.Gateway = (*Gateway)(nil)

const orderSelect = `
SELECT o.id, o.customer_id, o.address, o.status, o.total_price, o.note,
       o.created_at, o.updated_at,
       i.product_id, i.product_name, i.vendor_id, i.vendor_name,
       i.quantity, i.price, i.total_price, i.status
FROM orders o
LEFT JOIN order_items i ON i.order_id = o.id`

// Orders возвращает все заказы в порядке создания.
func (g *Gateway) Orders(ctx context.Context) ([]domain.Order, error) {
	query := orderSelect + `
ORDER BY o.created_at ASC, o.id ASC, i.position ASC`

	orders, err := g.queryOrders(ctx, query)
	if err != nil {
		return nil, domain.NewRemoteError("orders.list", err)
	}
	return orders, nil
}

// OrdersByVendor возвращает заказы, содержащие хотя бы одну позицию вендора.
// Заказ возвращается целиком, включая позиции других вендоров.
func (g *Gateway) OrdersByVendor(ctx context.Context, vendorID string) ([]domain.Order, error) {
	query := orderSelect + `
WHERE EXISTS (
    SELECT 1 FROM order_items v
    WHERE v.order_id = o.id AND v.vendor_id = $1
)
ORDER BY o.created_at ASC, o.id ASC, i.position ASC`

	orders, err := g.queryOrders(ctx, query, vendorID)
	if err != nil {
		return nil, domain.NewRemoteError("orders.by_vendor", err)
	}
	return orders, nil
}

// OrderByID возвращает заказ или domain.ErrOrderNotFound.
func (g *Gateway) OrderByID(ctx context.Context, id string) (domain.Order, error) {
	query := orderSelect + `
WHERE o.id = $1
ORDER BY i.position ASC`

	orders, err := g.queryOrders(ctx, query, id)
	if err != nil {
		return domain.Order{}, domain.NewRemoteError("orders.get", err)
	}
	if len(orders) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return orders[0], nil
}

// UpdateStatus выставляет агрегатный статус и заметку заказа.
func (g *Gateway) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, note string) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := g.db.ExecContext(queryCtx, `
		UPDATE orders
		SET status = $2, note = $3, updated_at = NOW()
		WHERE id = $1
	`, id, string(status), note)
	if err != nil {
		return domain.NewRemoteError("orders.update_status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewRemoteError("orders.update_status", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// UpdatePartialDelivery помечает позиции вендора доставленными и пересчитывает
// агрегатный статус заказа: DELIVERED, если доставлено всё, иначе PARTIALLY DELIVERED.
func (g *Gateway) UpdatePartialDelivery(ctx context.Context, id, vendorID string) (string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := g.db.BeginTx(queryCtx, nil)
	if err != nil {
		return "", domain.NewRemoteError("orders.partial_delivery", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Блокируем строку заказа, чтобы конкурентные отметки не потеряли пересчёт статуса.
	var current string
	err = tx.QueryRowContext(queryCtx, `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE
	`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrOrderNotFound
	}
	if err != nil {
		return "", domain.NewRemoteError("orders.partial_delivery", err)
	}

	if _, err := tx.ExecContext(queryCtx, `
		UPDATE order_items
		SET status = $3
		WHERE order_id = $1 AND vendor_id = $2
	`, id, vendorID, string(domain.ItemStatusDelivered)); err != nil {
		return "", domain.NewRemoteError("orders.partial_delivery", err)
	}

	var pending int
	if err := tx.QueryRowContext(queryCtx, `
		SELECT COUNT(*) FROM order_items
		WHERE order_id = $1 AND status <> $2
	`, id, string(domain.ItemStatusDelivered)).Scan(&pending); err != nil {
		return "", domain.NewRemoteError("orders.partial_delivery", err)
	}

	next := domain.OrderStatusPartiallyDelivered
	if pending == 0 {
		next = domain.OrderStatusDelivered
	}
	if _, err := tx.ExecContext(queryCtx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, string(next)); err != nil {
		return "", domain.NewRemoteError("orders.partial_delivery", err)
	}

	if err := tx.Commit(); err != nil {
		return "", domain.NewRemoteError("orders.partial_delivery", err)
	}
	return "Vendor items marked as delivered", nil
}

// CreateOrder сохраняет заказ вместе с позициями в одной транзакции.
func (g *Gateway) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := g.db.BeginTx(queryCtx, nil)
	if err != nil {
		return domain.Order{}, domain.NewRemoteError("orders.create", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(queryCtx, `
		INSERT INTO orders (id, customer_id, address, status, total_price, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, order.ID, order.CustomerID, order.Address, string(order.Status),
		order.TotalPrice, order.Note, order.CreatedAt, order.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Order{}, domain.NewRemoteError("orders.create",
				fmt.Errorf("order %s already exists", order.ID))
		}
		return domain.Order{}, domain.NewRemoteError("orders.create", err)
	}

	for i, item := range order.Items {
		if _, err := tx.ExecContext(queryCtx, `
			INSERT INTO order_items
			    (order_id, position, product_id, product_name, vendor_id, vendor_name,
			     quantity, price, total_price, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, order.ID, i, item.ProductID, item.ProductName, item.VendorID, item.VendorName,
			item.Quantity, item.Price, item.TotalPrice, string(item.Status)); err != nil {
			return domain.Order{}, domain.NewRemoteError("orders.create", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, domain.NewRemoteError("orders.create", err)
	}
	return order, nil
}

// Products возвращает весь каталог.
func (g *Gateway) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := g.queryProducts(ctx, `
		SELECT id, name, price, vendor_id, vendor_name, stock, is_low_stock
		FROM products
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, domain.NewRemoteError("products.list", err)
	}
	return products, nil
}

// ProductsByVendor возвращает товары вендора.
func (g *Gateway) ProductsByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	products, err := g.queryProducts(ctx, `
		SELECT id, name, price, vendor_id, vendor_name, stock, is_low_stock
		FROM products
		WHERE vendor_id = $1
		ORDER BY name ASC, id ASC
	`, vendorID)
	if err != nil {
		return nil, domain.NewRemoteError("products.by_vendor", err)
	}
	return products, nil
}

// ReviewsByVendor возвращает отзывы о вендоре, свежие первыми.
func (g *Gateway) ReviewsByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := g.db.QueryContext(queryCtx, `
		SELECT id, vendor_id, customer_id, comment, rating, created_at
		FROM vendor_reviews
		WHERE vendor_id = $1
		ORDER BY created_at DESC, id ASC
	`, vendorID)
	if err != nil {
		return nil, domain.NewRemoteError("reviews.by_vendor", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.VendorID, &r.CustomerID, &r.Comment, &r.Rating, &r.CreatedAt); err != nil {
			return nil, domain.NewRemoteError("reviews.by_vendor", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewRemoteError("reviews.by_vendor", err)
	}
	return reviews, nil
}

// AverageRating возвращает средний рейтинг вендора, округлённый до сотых.
// Для вендора без отзывов возвращается ноль.
func (g *Gateway) AverageRating(ctx context.Context, vendorID string) (decimal.Decimal, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var avg decimal.Decimal
	err := g.db.QueryRowContext(queryCtx, `
		SELECT COALESCE(ROUND(AVG(rating), 2), 0)
		FROM vendor_reviews
		WHERE vendor_id = $1
	`, vendorID).Scan(&avg)
	if err != nil {
		return decimal.Zero, domain.NewRemoteError("reviews.average_rating", err)
	}
	return avg, nil
}

// UserByID возвращает пользователя или domain.ErrUserNotFound.
func (g *Gateway) UserByID(ctx context.Context, id string) (domain.User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u domain.User
	err := g.db.QueryRowContext(queryCtx, `
		SELECT id, name, role FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, domain.NewRemoteError("users.get", err)
	}
	return u, nil
}

// queryOrders выполняет JOIN-запрос заказов с позициями и собирает агрегаты.
// Запрос обязан сортировать строки так, чтобы позиции одного заказа шли подряд.
func (g *Gateway) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := g.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	var current *domain.Order
	for rows.Next() {
		var (
			o domain.Order
			// Поля позиции nullable: LEFT JOIN отдаёт NULL для заказа без позиций.
			productID, productName, vendorID, vendorName, itemStatus sql.NullString
			quantity                                                 sql.NullInt32
			price, totalPrice                                        decimal.NullDecimal
		)
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.Address, &o.Status, &o.TotalPrice, &o.Note,
			&o.CreatedAt, &o.UpdatedAt,
			&productID, &productName, &vendorID, &vendorName,
			&quantity, &price, &totalPrice, &itemStatus,
		); err != nil {
			return nil, err
		}

		if current == nil || current.ID != o.ID {
			orders = append(orders, o)
			current = &orders[len(orders)-1]
		}
		if productID.Valid {
			current.Items = append(current.Items, domain.OrderItem{
				ProductID:   productID.String,
				ProductName: productName.String,
				VendorID:    vendorID.String,
				VendorName:  vendorName.String,
				Quantity:    quantity.Int32,
				Price:       price.Decimal,
				TotalPrice:  totalPrice.Decimal,
				Status:      domain.ItemStatus(itemStatus.String),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (g *Gateway) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := g.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.VendorID, &p.VendorName, &p.Stock, &p.IsLowStock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

package domain

import "time"

// Review — отзыв покупателя о вендоре.
type Review struct {
	ID         string
	VendorID   string
	CustomerID string
	Comment    string
	// Rating — оценка от 1 до 5.
	Rating    int32
	CreatedAt time.Time
}

// User — минимальное представление пользователя маркетплейса.
// Используется для отображения имён вендоров на дашборде.
type User struct {
	ID   string
	Name string
	Role string
}

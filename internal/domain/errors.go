package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего адреса доставки.
	ErrAddressRequired = errors.New("address is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы заказа.
	ErrTotalNegative = errors.New("total_order_price must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match items sum")
	// Ошибка отсутствующего целевого статуса при переводе заказа.
	ErrStatusRequired = errors.New("status is required")
	// Ошибка, если целевой статус не входит в допустимый набор.
	ErrStatusUnknown = errors.New("status is not a valid transition target")
	// Ошибка отсутствующей заметки при переводе заказа.
	ErrNoteRequired = errors.New("note is required")
	// ErrAlreadyDelivered блокирует частичную доставку по уже доставленному заказу.
	ErrAlreadyDelivered = errors.New("order is already partially delivered or delivered")
	// ErrOrderIDRequired возвращается при пустом идентификаторе заказа.
	ErrOrderIDRequired = errors.New("order_id is required")
	// ErrVendorIDRequired возвращается при пустом идентификаторе вендора.
	ErrVendorIDRequired = errors.New("vendor_id is required")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
)

// validationErrors перечисляет ошибки-прекондиции: при них обращение
// к бэкенду не выполняется и состояние не меняется.
var validationErrors = []error{
	ErrCustomerRequired,
	ErrAddressRequired,
	ErrItemsRequired,
	ErrTotalNegative,
	ErrItemQtyInvalid,
	ErrItemPriceInvalid,
	ErrTotalMismatch,
	ErrStatusRequired,
	ErrStatusUnknown,
	ErrNoteRequired,
	ErrAlreadyDelivered,
	ErrOrderIDRequired,
	ErrVendorIDRequired,
}

// IsValidation проверяет, относится ли ошибка к нарушению прекондиций.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// RemoteError оборачивает сбой удалённой операции (сеть либо бэкенд).
// Локальное состояние при таких ошибках остаётся нетронутым.
type RemoteError struct {
	// Op — имя удалённой операции, например "orders.update_status".
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote operation %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewRemoteError конструирует RemoteError; nil остаётся nil.
func NewRemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, Err: err}
}

// IsRemote проверяет, является ли ошибка сбоем удалённой операции.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

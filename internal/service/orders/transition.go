package orders

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/metrics"
)

// TransitionManager валидирует и применяет переводы статуса заказа.
// Локальное состояние не мутируется: после успешного перевода вызывающая
// сторона обязана выполнить re-fetch, чтобы увидеть новое состояние.
type TransitionManager struct {
	gateway   domain.OrderGateway
	publisher domain.EventPublisher
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewTransitionManager конструирует менеджер переводов.
// publisher и m могут быть nil: события и метрики тогда не записываются.
func NewTransitionManager(
	gateway domain.OrderGateway,
	publisher domain.EventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *TransitionManager {
	if logger == nil {
		logger = log.WithField("component", "transition-manager")
	}
	return &TransitionManager{
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// ApplyTransition переводит заказ в новый статус и записывает заметку.
// Прекондиции (непустой статус из допустимого набора, непустая заметка)
// проверяются до любого обращения к бэкенду; при их нарушении возвращается
// validation-ошибка и побочных эффектов нет. Клиентской машины состояний
// нет: допустимость последовательности статусов контролирует бэкенд.
func (m *TransitionManager) ApplyTransition(ctx context.Context, orderID string, status domain.OrderStatus, note string) error {
	if err := m.validateTransition(orderID, status, note); err != nil {
		m.metrics.RecordTransitionRejected()
		return err
	}

	if err := m.gateway.UpdateStatus(ctx, orderID, status, note); err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"status":   status,
		}).Error("failed to update order status")
		return err
	}

	m.metrics.RecordTransition(string(status))
	m.publish(domain.EventOrderStatusChanged, orderID, "", status)

	m.logger.WithFields(log.Fields{
		"order_id": orderID,
		"status":   status,
	}).Info("order status updated")
	return nil
}

func (m *TransitionManager) validateTransition(orderID string, status domain.OrderStatus, note string) error {
	if orderID == "" {
		return domain.ErrOrderIDRequired
	}
	if status == "" {
		return domain.ErrStatusRequired
	}
	if !status.TransitionTarget() {
		return domain.ErrStatusUnknown
	}
	if strings.TrimSpace(note) == "" {
		return domain.ErrNoteRequired
	}
	return nil
}

// MarkPartiallyDelivered помечает позиции вендора в заказе доставленными.
// Отдельный endpoint бэкенда; может перевести агрегатный статус заказа в
// PARTIALLY DELIVERED. Для заказов, уже находящихся в PARTIALLY DELIVERED
// или DELIVERED, мутация не выполняется: прогресс доставки монотонен и
// через этот путь не обратим.
func (m *TransitionManager) MarkPartiallyDelivered(ctx context.Context, orderID, vendorID string) (string, error) {
	if orderID == "" {
		m.metrics.RecordTransitionRejected()
		return "", domain.ErrOrderIDRequired
	}
	if vendorID == "" {
		m.metrics.RecordTransitionRejected()
		return "", domain.ErrVendorIDRequired
	}

	order, err := m.gateway.OrderByID(ctx, orderID)
	if err != nil {
		m.logger.WithError(err).WithField("order_id", orderID).Error("failed to load order before partial delivery")
		return "", err
	}
	if order.Status == domain.OrderStatusPartiallyDelivered || order.Status == domain.OrderStatusDelivered {
		m.metrics.RecordTransitionRejected()
		return "", domain.ErrAlreadyDelivered
	}

	message, err := m.gateway.UpdatePartialDelivery(ctx, orderID, vendorID)
	if err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"order_id":  orderID,
			"vendor_id": vendorID,
		}).Error("failed to mark partial delivery")
		return "", err
	}

	m.metrics.RecordPartialDelivery()
	m.publish(domain.EventOrderPartiallyDelivered, orderID, order.CustomerID, domain.OrderStatusPartiallyDelivered)

	m.logger.WithFields(log.Fields{
		"order_id":  orderID,
		"vendor_id": vendorID,
	}).Info("vendor items marked as delivered")
	return message, nil
}

// publish отправляет доменное событие; сбой публикации операцию не ломает.
func (m *TransitionManager) publish(eventType, orderID, customerID string, status domain.OrderStatus) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishOrderEvent(eventType, orderID, customerID, status); err != nil {
		m.logger.WithError(err).WithField("event_type", eventType).Warn("failed to publish order event")
	}
}

package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
)

// Publisher публикует события жизненного цикла заказа в Kafka.
// Реализует domain.EventPublisher.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *log.Entry
}

var _ domain.EventPublisher = (*Publisher)(nil)

// NewPublisher создает publisher с идемпотентным sync-продюсером.
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll // Wait for all in-sync replicas
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true // Включаем идемпотентность
	config.Net.MaxOpenRequests = 1    // Для идемпотентности

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Publisher{
		producer: producer,
		topic:    TopicOrderEvents,
		logger:   log.WithField("component", "kafka-publisher"),
	}, nil
}

// PublishOrderEvent публикует событие заказа, ключ партиционирования — orderID,
// так события одного заказа сохраняют порядок внутри партиции.
func (p *Publisher) PublishOrderEvent(eventType, orderID, customerID string, status domain.OrderStatus) error {
	event := NewOrderEvent(eventType, orderID, customerID, status)

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(orderID),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic":    p.topic,
			"order_id": orderID,
			"event":    eventType,
		}).Error("failed to send order event to kafka")
		return fmt.Errorf("failed to send order event: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     p.topic,
		"order_id":  orderID,
		"event":     eventType,
		"partition": partition,
		"offset":    offset,
	}).Debug("order event sent to kafka")

	return nil
}

// Close закрывает продюсер.
func (p *Publisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka publisher: %w", err)
	}
	return nil
}

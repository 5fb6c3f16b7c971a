// Package events публикация доменных событий бронирования в Kafka.
// Публикация best-effort: ошибка доставки логируется и репортится метрикой,
// но никогда не откатывает уже закоммиченное состояние бронирования.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// KafkaPublisher публикует доменные события в один топик Kafka
type KafkaPublisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewKafkaPublisher создает publisher для указанных брокеров и топика
func NewKafkaPublisher(brokers string, topic string, log Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer, log: log}
}

// Publish публикует событие; ключ партиционирования - business_id,
// чтобы события одного бизнеса сохраняли порядок
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event %s: %w", event.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.BusinessID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write event %s: %w", event.ID, err)
	}

	p.log.Info("events: published %s id=%s booking=%d", event.Type, event.ID, event.BookingID)
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// splitBrokers разбирает строку брокеров вида "host1:9092,host2:9092"
func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

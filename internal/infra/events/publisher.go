package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
)

// Типы событий, они же routing key
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

const publishTimeout = 5 * time.Second

var (
	// ErrConnect возвращается, если не удалось подключиться к брокеру
	ErrConnect = errors.New("events: failed to connect to broker")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BookingEvent сообщение об изменении бронирования
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	BookingID  int64     `json:"bookingId"`
	FieldID    int64     `json:"fieldId"`
	PlayerID   int64     `json:"playerId"`
	Date       string    `json:"bookingDate"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	TotalPrice int64     `json:"totalPrice"`
	Status     string    `json:"status"`
}

// NewBookingEvent формирует событие по бронированию
func NewBookingEvent(eventType string, b *domain.Booking, now time.Time) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		BookingID:  b.ID,
		FieldID:    b.FieldID,
		PlayerID:   b.PlayerID,
		Date:       b.BookingDate.Format(domain.DateFormat),
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
	}
}

// channel подмножество *amqp.Channel, используемое публикатором
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher публикует события в topic exchange.
// Ошибки публикации только логируются: бронирование уже сохранено.
type RabbitPublisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex // amqp.Channel не потокобезопасен для публикации
	ch       channel
	exchange string
	logger   Logger
}

// NewRabbitPublisher подключается к брокеру и объявляет exchange
func NewRabbitPublisher(url, exchange string, logger Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// Publish отправляет событие eventType по бронированию
func (p *RabbitPublisher) Publish(ctx context.Context, eventType string, b *domain.Booking) {
	event := NewBookingEvent(eventType, b, time.Now())

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Publish: failed to marshal %s for booking id=%d: %v", eventType, b.ID, err)
		return
	}

	// Публикация не должна зависеть от отмены входящего запроса
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.ch.PublishWithContext(pubCtx, p.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         eventType,
		Body:         body,
	})
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("Publish: failed to publish %s for booking id=%d: %v", eventType, b.ID, err)
		return
	}

	p.logger.Info("Publish: %s sent for booking id=%d", eventType, b.ID)
}

// Close закрывает канал и соединение
func (p *RabbitPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher используется, когда публикация событий отключена
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType string, b *domain.Booking) {}

package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Belgregori/AutoRent/internal/domain"
	pkgkafka "github.com/Belgregori/AutoRent/pkg/kafka"
)

// Kafka topics for reservation domain events.
const (
	TopicReservationCreated       = "autorent.reservation.created"
	TopicReservationStatusChanged = "autorent.reservation.status_changed"
	TopicReservationCanceled      = "autorent.reservation.canceled"
)

// AggregateTypeReservation identifies the event aggregate.
const AggregateTypeReservation = "reservation"

// SourceReservationService identifies events originating from this service.
const SourceReservationService = "reservation-service"

// ReservationCreatedData is the payload for a reservation.created event.
type ReservationCreatedData struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	UserID     string    `json:"user_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	DaysCount  int       `json:"days_count"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
}

// ReservationStatusChangedData is the payload for a status_changed event.
type ReservationStatusChangedData struct {
	ReservationID string `json:"reservation_id"`
	ProductID     string `json:"product_id"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
}

// ReservationCanceledData is the payload for a reservation.canceled event.
type ReservationCanceledData struct {
	ReservationID string `json:"reservation_id"`
	ProductID     string `json:"product_id"`
	UserID        string `json:"user_id"`
}

// Producer publishes reservation domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the reservation service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReservationCreated publishes a reservation.created event with the
// full reservation snapshot.
func (p *Producer) PublishReservationCreated(ctx context.Context, res *domain.Reservation) error {
	data := ReservationCreatedData{
		ID:         res.ID,
		ProductID:  res.ProductID,
		UserID:     res.UserID,
		StartDate:  res.StartDate,
		EndDate:    res.EndDate,
		DaysCount:  res.DaysCount,
		TotalPrice: res.TotalPrice,
		Status:     res.Status,
	}

	event, err := pkgkafka.NewEvent(TopicReservationCreated, res.ID, AggregateTypeReservation, SourceReservationService, data)
	if err != nil {
		return fmt.Errorf("create reservation.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReservationCreated, event); err != nil {
		return fmt.Errorf("publish reservation.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published reservation.created event",
		slog.String("reservation_id", res.ID),
		slog.String("product_id", res.ProductID),
	)

	return nil
}

// PublishReservationStatusChanged publishes a status_changed event.
func (p *Producer) PublishReservationStatusChanged(ctx context.Context, res *domain.Reservation, oldStatus, newStatus string) error {
	data := ReservationStatusChangedData{
		ReservationID: res.ID,
		ProductID:     res.ProductID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
	}

	event, err := pkgkafka.NewEvent(TopicReservationStatusChanged, res.ID, AggregateTypeReservation, SourceReservationService, data)
	if err != nil {
		return fmt.Errorf("create reservation.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReservationStatusChanged, event); err != nil {
		return fmt.Errorf("publish reservation.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published reservation.status_changed event",
		slog.String("reservation_id", res.ID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return nil
}

// PublishReservationCanceled publishes a reservation.canceled event.
func (p *Producer) PublishReservationCanceled(ctx context.Context, res *domain.Reservation) error {
	data := ReservationCanceledData{
		ReservationID: res.ID,
		ProductID:     res.ProductID,
		UserID:        res.UserID,
	}

	event, err := pkgkafka.NewEvent(TopicReservationCanceled, res.ID, AggregateTypeReservation, SourceReservationService, data)
	if err != nil {
		return fmt.Errorf("create reservation.canceled event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReservationCanceled, event); err != nil {
		return fmt.Errorf("publish reservation.canceled event: %w", err)
	}

	p.logger.DebugContext(ctx, "published reservation.canceled event",
		slog.String("reservation_id", res.ID),
		slog.String("product_id", res.ProductID),
	)

	return nil
}

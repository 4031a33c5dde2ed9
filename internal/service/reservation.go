package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Belgregori/AutoRent/internal/domain"
	"github.com/Belgregori/AutoRent/internal/event"
	"github.com/Belgregori/AutoRent/internal/repository"
	apperrors "github.com/Belgregori/AutoRent/pkg/errors"
)

// ReservationService implements the business logic for reservation operations.
type ReservationService struct {
	reservations repository.ReservationRepository
	products     repository.ProductRepository
	cache        repository.AvailabilityCache
	producer     *event.Producer
	logger       *slog.Logger

	// now is injected so date guards are deterministic in tests.
	now func() time.Time
}

// NewReservationService creates a new reservation service.
func NewReservationService(
	reservations repository.ReservationRepository,
	products repository.ProductRepository,
	cache repository.AvailabilityCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		products:     products,
		cache:        cache,
		producer:     producer,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateReservationInput holds the parameters for creating a reservation.
type CreateReservationInput struct {
	ProductID string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

// Create books a product for a date range. It validates the product, the
// date order, and the past-date rule, checks for conflicts with existing
// active reservations, computes the total price, and persists the
// reservation in pending status. A failed create leaves no row.
//
// The conflict pre-check gives precise errors, but correctness under
// concurrent callers rests on the store's exclusion constraint: a racing
// insert that slips past the pre-check is rejected there and surfaces as
// the same conflict error.
func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", input.ProductID)
		}
		return nil, fmt.Errorf("look up product: %w", err)
	}

	if !product.Available {
		return nil, apperrors.ProductUnavailable(product.ID)
	}

	rng, err := domain.NewDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	today := domain.NormalizeDate(s.now())
	if rng.Start.Before(today) {
		return nil, apperrors.InvalidInput("start date must not be in the past")
	}

	overlapping, err := s.reservations.FindOverlapping(ctx, product.ID, rng)
	if err != nil {
		return nil, fmt.Errorf("check date conflicts: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, apperrors.Conflict("product is not available in the requested date range")
	}

	now := s.now().UTC()
	days := rng.Days()

	res := &domain.Reservation{
		ID:         uuid.New().String(),
		ProductID:  product.ID,
		UserID:     input.UserID,
		StartDate:  rng.Start,
		EndDate:    rng.End,
		DaysCount:  days,
		TotalPrice: domain.TotalPriceFor(days, product.PricePerDay),
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost a race with a concurrent overlapping create.
			return nil, err
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.invalidateAvailability(ctx, res.ProductID)

	if err := s.producer.PublishReservationCreated(ctx, res); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reservation.created event",
			slog.String("reservation_id", res.ID),
			slog.String("error", err.Error()),
		)
		// Event publishing failures do not fail the operation.
	}

	s.logger.InfoContext(ctx, "reservation created",
		slog.String("reservation_id", res.ID),
		slog.String("product_id", res.ProductID),
		slog.String("user_id", res.UserID),
		slog.Int("days_count", res.DaysCount),
		slog.Int64("total_price", res.TotalPrice),
	)

	return res, nil
}

// Get retrieves a reservation by its ID.
func (s *ReservationService) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("reservation", id)
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// List returns a filtered, paginated list of reservations.
func (s *ReservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, int, error) {
	if filter.Status != nil && !domain.IsValidStatus(*filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", *filter.Status))
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	reservations, total, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}

	return reservations, total, nil
}

// ListByUser returns a user's reservations, newest first.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	reservations, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by user: %w", err)
	}
	return reservations, nil
}

// Confirm promotes a pending reservation to confirmed.
func (s *ReservationService) Confirm(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !res.CanTransitionTo(domain.StatusConfirmed) {
		return nil, apperrors.InvalidTransition(res.Status, domain.StatusConfirmed)
	}

	if err := s.transition(ctx, res, domain.StatusConfirmed); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "reservation confirmed", slog.String("reservation_id", id))

	return res, nil
}

// Cancel cancels a reservation on behalf of its owner. Cancellation is
// rejected within 24 hours of the start date, from pending and confirmed
// alike.
func (s *ReservationService) Cancel(ctx context.Context, id, callerUserID string) (*domain.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerUserID != "" && res.UserID != callerUserID {
		return nil, apperrors.Forbidden("reservation belongs to another user")
	}

	if !res.CanTransitionTo(domain.StatusCanceled) {
		return nil, apperrors.InvalidTransition(res.Status, domain.StatusCanceled)
	}

	if !res.CancelableOn(s.now()) {
		return nil, apperrors.TransitionNotAllowed("reservations cannot be canceled within 24 hours of their start date")
	}

	if err := s.transition(ctx, res, domain.StatusCanceled); err != nil {
		return nil, err
	}

	// Canceling releases the dates, so cached availability is stale.
	s.invalidateAvailability(ctx, res.ProductID)

	if err := s.producer.PublishReservationCanceled(ctx, res); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reservation.canceled event",
			slog.String("reservation_id", res.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "reservation canceled",
		slog.String("reservation_id", id),
		slog.String("user_id", res.UserID),
	)

	return res, nil
}

// Complete marks a reservation whose date range has fully elapsed as
// completed. This is an operator/scheduler trigger, not a user action.
func (s *ReservationService) Complete(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !res.CanTransitionTo(domain.StatusCompleted) {
		return nil, apperrors.InvalidTransition(res.Status, domain.StatusCompleted)
	}

	if !res.CompletableOn(s.now()) {
		return nil, apperrors.TransitionNotAllowed("reservation date range has not elapsed yet")
	}

	if err := s.transition(ctx, res, domain.StatusCompleted); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "reservation completed", slog.String("reservation_id", id))

	return res, nil
}

// Delete removes a reservation permanently. This is an administrative
// operation that bypasses the state machine.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("reservation", id)
		}
		return fmt.Errorf("delete reservation: %w", err)
	}

	s.invalidateAvailability(ctx, res.ProductID)

	s.logger.InfoContext(ctx, "reservation deleted",
		slog.String("reservation_id", id),
		slog.String("product_id", res.ProductID),
	)

	return nil
}

// CheckAvailability reports whether the product is free for the given range.
func (s *ReservationService) CheckAvailability(ctx context.Context, productID string, start, end time.Time) (bool, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, apperrors.NotFound("product", productID)
		}
		return false, fmt.Errorf("look up product: %w", err)
	}

	rng, err := domain.NewDateRange(start, end)
	if err != nil {
		return false, apperrors.InvalidInput(err.Error())
	}

	overlapping, err := s.reservations.FindOverlapping(ctx, productID, rng)
	if err != nil {
		return false, fmt.Errorf("check date conflicts: %w", err)
	}

	return len(overlapping) == 0, nil
}

// StatusCounts summarizes reservation counts per status.
type StatusCounts struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// Stats returns reservation counts per status plus the total.
func (s *ReservationService) Stats(ctx context.Context) (*StatusCounts, error) {
	counts, err := s.reservations.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	byStatus := make(map[string]int64, len(domain.ValidStatuses()))
	var total int64
	for _, status := range domain.ValidStatuses() {
		byStatus[status] = counts[status]
		total += counts[status]
	}

	return &StatusCounts{Total: total, ByStatus: byStatus}, nil
}

// transition performs the compare-and-swap persist for a guarded status
// change and publishes the status_changed event. On a lost race the current
// status is re-read and reported as an invalid transition.
func (s *ReservationService) transition(ctx context.Context, res *domain.Reservation, target string) error {
	oldStatus := res.Status

	err := s.reservations.UpdateStatus(ctx, res.ID, oldStatus, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			current, getErr := s.reservations.GetByID(ctx, res.ID)
			if getErr != nil {
				return fmt.Errorf("re-read reservation after transition race: %w", getErr)
			}
			return apperrors.InvalidTransition(current.Status, target)
		}
		return fmt.Errorf("update reservation status: %w", err)
	}

	res.Status = target

	if err := s.producer.PublishReservationStatusChanged(ctx, res, oldStatus, target); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reservation.status_changed event",
			slog.String("reservation_id", res.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// invalidateAvailability drops cached availability for a product. Cache
// errors are logged, never propagated: the cache has a short TTL and the
// store remains the source of truth.
func (s *ReservationService) invalidateAvailability(ctx context.Context, productID string) {
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate availability cache",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

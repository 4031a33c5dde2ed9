package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Belgregori/AutoRent/internal/domain"
	"github.com/Belgregori/AutoRent/internal/repository"
	apperrors "github.com/Belgregori/AutoRent/pkg/errors"
)

// DefaultHorizonMonths is the availability window used when the caller does
// not specify one.
const DefaultHorizonMonths = 3

// MaxHorizonMonths bounds the availability window; a larger horizon makes
// the day-by-day report unreasonably large.
const MaxHorizonMonths = 24

// AvailabilityService computes per-day availability reports for products.
type AvailabilityService struct {
	reservations repository.ReservationRepository
	products     repository.ProductRepository
	cache        repository.AvailabilityCache
	logger       *slog.Logger

	now func() time.Time
}

// NewAvailabilityService creates a new availability service.
func NewAvailabilityService(
	reservations repository.ReservationRepository,
	products repository.ProductRepository,
	cache repository.AvailabilityCache,
	logger *slog.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		reservations: reservations,
		products:     products,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
}

// ComputeAvailability returns the day-by-day occupied and available dates
// for a product over [today, today + months months]. The two lists are
// disjoint, each sorted ascending, and together cover the window exactly.
func (s *AvailabilityService) ComputeAvailability(ctx context.Context, productID string, months int) (*domain.AvailabilityReport, error) {
	if months < 1 {
		return nil, apperrors.InvalidInput("months must be at least 1")
	}
	if months > MaxHorizonMonths {
		return nil, apperrors.InvalidInput(fmt.Sprintf("months must not exceed %d", MaxHorizonMonths))
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("look up product: %w", err)
	}

	today := domain.NormalizeDate(s.now())

	if cached, err := s.cache.Get(ctx, productID, months, today); err == nil {
		return cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "availability cache read failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	window := domain.DateRange{Start: today, End: today.AddDate(0, months, 0)}

	overlapping, err := s.reservations.FindOverlapping(ctx, productID, window)
	if err != nil {
		return nil, fmt.Errorf("find reservations in window: %w", err)
	}

	occupied := make(map[time.Time]bool)
	for _, res := range overlapping {
		clipped, ok := res.Range().Clip(window)
		if !ok {
			continue
		}
		for _, day := range clipped.Dates() {
			occupied[day] = true
		}
	}

	report := &domain.AvailabilityReport{
		ProductID:      productID,
		HorizonMonths:  months,
		From:           window.Start,
		To:             window.End,
		OccupiedDates:  make([]time.Time, 0, len(occupied)),
		AvailableDates: make([]time.Time, 0),
	}

	for _, day := range window.Dates() {
		if occupied[day] {
			report.OccupiedDates = append(report.OccupiedDates, day)
		} else {
			report.AvailableDates = append(report.AvailableDates, day)
		}
	}

	if err := s.cache.Set(ctx, report, today); err != nil {
		s.logger.WarnContext(ctx, "availability cache write failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	return report, nil
}

// OccupiedDates returns only the occupied dates for a product over the
// horizon. Thin wrapper over ComputeAvailability so both views share the
// cache entry.
func (s *AvailabilityService) OccupiedDates(ctx context.Context, productID string, months int) ([]time.Time, error) {
	report, err := s.ComputeAvailability(ctx, productID, months)
	if err != nil {
		return nil, err
	}
	return report.OccupiedDates, nil
}

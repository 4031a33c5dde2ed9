package repository

import (
	"context"
	"time"

	"github.com/Belgregori/AutoRent/internal/domain"
)

// ReservationFilter defines filter criteria for listing reservations.
type ReservationFilter struct {
	ProductID *string
	UserID    *string
	Status    *string
	Page      int
	PerPage   int
}

// ReservationRepository defines the persistence operations the engine needs.
type ReservationRepository interface {
	// Create inserts a new reservation. Overlapping inserts for the same
	// product are rejected by the store and surfaced as a conflict error,
	// which is what makes check-then-insert safe under concurrent callers.
	Create(ctx context.Context, reservation *domain.Reservation) error

	// GetByID retrieves a reservation by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)

	// List returns reservations matching the filter plus the total count.
	List(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, int, error)

	// ListByUser returns a user's reservations, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error)

	// FindOverlapping returns non-canceled reservations for the product
	// whose inclusive date range overlaps the given one.
	FindOverlapping(ctx context.Context, productID string, rng domain.DateRange) ([]domain.Reservation, error)

	// UpdateStatus transitions a reservation from an expected current status
	// to a new one as a single compare-and-swap. It returns ErrNotFound if
	// the id is unknown and ErrConflict if the row's status no longer
	// matches the expected one.
	UpdateStatus(ctx context.Context, id, from, to string) error

	// Delete removes a reservation permanently (administrative operation).
	Delete(ctx context.Context, id string) error

	// CountByStatus returns the number of reservations per status.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ProductRepository is the read-only product lookup the engine consumes.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// AvailabilityCache caches computed availability reports. Reports depend on
// the day they were computed, so the key includes that day.
type AvailabilityCache interface {
	Get(ctx context.Context, productID string, months int, day time.Time) (*domain.AvailabilityReport, error)
	Set(ctx context.Context, report *domain.AvailabilityReport, day time.Time) error
	Invalidate(ctx context.Context, productID string) error
}

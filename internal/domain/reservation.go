package domain

import "time"

// Reservation status constants.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
	StatusCompleted = "completed"
)

// Reservation is a booked date range for a product by a user.
//
// TotalPrice is derived at creation (DaysCount × the product's daily rate)
// and never recomputed afterwards.
type Reservation struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	UserID     string    `json:"user_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	DaysCount  int       `json:"days_count"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Range returns the reservation's inclusive date range.
func (r *Reservation) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// Active reports whether the reservation still occupies its dates.
// Canceled reservations release their dates; every other status holds them.
func (r *Reservation) Active() bool {
	return r.Status != StatusCanceled
}

// ValidStatuses returns all valid reservation statuses.
func ValidStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions defines which status transitions are legal.
// Canceled and completed are terminal.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		StatusPending:   {StatusConfirmed, StatusCanceled, StatusCompleted},
		StatusConfirmed: {StatusCanceled, StatusCompleted},
		StatusCanceled:  {},
		StatusCompleted: {},
	}
}

// CanTransitionTo checks if the reservation can move to the target status.
func (r *Reservation) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[r.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// CancelableOn reports whether the 24-hour cancellation guard passes on the
// given day. A reservation starting tomorrow is already within 24 hours of
// its midnight start, so the start date must be at least two days away.
func (r *Reservation) CancelableOn(today time.Time) bool {
	return !NormalizeDate(r.StartDate).Before(NormalizeDate(today).AddDate(0, 0, 2))
}

// CompletableOn reports whether the reservation's date range has fully
// elapsed by the given day.
func (r *Reservation) CompletableOn(today time.Time) bool {
	return NormalizeDate(r.EndDate).Before(NormalizeDate(today))
}

// TotalPriceFor computes the total price for a stay: day count times the
// per-day rate. Prices are int64 minor units, so the product is exact.
func TotalPriceFor(days int, pricePerDay int64) int64 {
	return int64(days) * pricePerDay
}

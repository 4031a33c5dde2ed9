package domain

import "time"

// Product is the rentable item the engine reads but never writes.
// PricePerDay is in minor currency units. When Available is false the
// product accepts no new reservations.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PricePerDay int64     `json:"price_per_day"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

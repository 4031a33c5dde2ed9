package domain

import "time"

// AvailabilityReport is the occupied/available breakdown for a product over
// a forward-looking horizon. OccupiedDates and AvailableDates are disjoint,
// each in ascending order, and together cover every date in [From, To].
type AvailabilityReport struct {
	ProductID      string      `json:"product_id"`
	HorizonMonths  int         `json:"horizon_months"`
	From           time.Time   `json:"from"`
	To             time.Time   `json:"to"`
	OccupiedDates  []time.Time `json:"occupied_dates"`
	AvailableDates []time.Time `json:"available_dates"`
}

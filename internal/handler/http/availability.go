package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Belgregori/AutoRent/internal/domain"
	"github.com/Belgregori/AutoRent/internal/service"
	"github.com/Belgregori/AutoRent/pkg/httputil"
)

// AvailabilityHandler handles HTTP requests for product availability endpoints.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
	reservations *service.ReservationService
	logger       *slog.Logger
}

// NewAvailabilityHandler creates a new availability HTTP handler.
func NewAvailabilityHandler(availability *service.AvailabilityService, reservations *service.ReservationService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		reservations: reservations,
		logger:       logger,
	}
}

// AvailabilityResponse is the JSON representation of an availability report.
type AvailabilityResponse struct {
	ProductID      string   `json:"product_id"`
	HorizonMonths  int      `json:"horizon_months"`
	From           string   `json:"from"`
	To             string   `json:"to"`
	OccupiedDates  []string `json:"occupied_dates"`
	AvailableDates []string `json:"available_dates"`
}

// OccupiedDatesResponse is the JSON representation of a product's occupied dates.
type OccupiedDatesResponse struct {
	ProductID     string   `json:"product_id"`
	HorizonMonths int      `json:"horizon_months"`
	OccupiedDates []string `json:"occupied_dates"`
}

// CheckAvailabilityResponse answers whether a specific range is free.
type CheckAvailabilityResponse struct {
	ProductID string `json:"product_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(domain.DateFormat)
	}
	return out
}

func toAvailabilityResponse(report *domain.AvailabilityReport) AvailabilityResponse {
	return AvailabilityResponse{
		ProductID:      report.ProductID,
		HorizonMonths:  report.HorizonMonths,
		From:           report.From.Format(domain.DateFormat),
		To:             report.To.Format(domain.DateFormat),
		OccupiedDates:  formatDates(report.OccupiedDates),
		AvailableDates: formatDates(report.AvailableDates),
	}
}

// monthsParam parses the optional months query parameter, defaulting to the
// standard horizon. Range validation is left to the service.
func monthsParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("months")
	if v == "" {
		return service.DefaultHorizonMonths, true
	}

	months, err := strconv.Atoi(v)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "months must be a valid integer"},
		})
		return 0, false
	}
	return months, true
}

// GetAvailability handles GET /api/v1/products/{id}/availability
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	months, ok := monthsParam(w, r)
	if !ok {
		return
	}

	report, err := h.availability.ComputeAvailability(r.Context(), id.String(), months)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toAvailabilityResponse(report)})
}

// GetOccupiedDates handles GET /api/v1/products/{id}/occupied-dates
func (h *AvailabilityHandler) GetOccupiedDates(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	months, ok := monthsParam(w, r)
	if !ok {
		return
	}

	occupied, err := h.availability.OccupiedDates(r.Context(), id.String(), months)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: OccupiedDatesResponse{
		ProductID:     id.String(),
		HorizonMonths: months,
		OccupiedDates: formatDates(occupied),
	}})
}

// CheckAvailability handles GET /api/v1/products/{id}/availability/check
func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	start, err := domain.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "start must be a date in YYYY-MM-DD format"},
		})
		return
	}
	end, err := domain.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "end must be a date in YYYY-MM-DD format"},
		})
		return
	}

	available, err := h.reservations.CheckAvailability(r.Context(), id.String(), start, end)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CheckAvailabilityResponse{
		ProductID: id.String(),
		StartDate: start.Format(domain.DateFormat),
		EndDate:   end.Format(domain.DateFormat),
		Available: available,
	}})
}

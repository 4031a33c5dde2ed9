package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Belgregori/AutoRent/internal/domain"
	apperrors "github.com/Belgregori/AutoRent/pkg/errors"
)

// ============================================================================
// GET /api/v1/products/{id}/availability
// ============================================================================

func TestGetAvailability_Success(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	m.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	m.cache.On("Get", mock.Anything, productID, 1, mock.Anything).Return(nil, apperrors.ErrNotFound)
	m.reservations.On("FindOverlapping", mock.Anything, productID, mock.Anything).
		Return([]domain.Reservation{*sampleReservation()}, nil)
	m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/availability?months=1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, productID, resp.Data.ProductID)
	assert.Equal(t, 1, resp.Data.HorizonMonths)
	assert.NotEmpty(t, resp.Data.AvailableDates)

	// The sample reservation sits 10-15 days out, inside a one-month window.
	assert.Len(t, resp.Data.OccupiedDates, 6)
	assert.Equal(t, futureDate(10).Format(domain.DateFormat), resp.Data.OccupiedDates[0])
}

func TestGetAvailability_DefaultHorizon(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	m.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	m.cache.On("Get", mock.Anything, productID, 3, mock.Anything).Return(nil, apperrors.ErrNotFound)
	m.reservations.On("FindOverlapping", mock.Anything, productID, mock.Anything).
		Return([]domain.Reservation{}, nil)
	m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/availability", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Data.HorizonMonths)
}

func TestGetAvailability_BadMonthsParam(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/availability?months=many", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailability_ZeroMonths(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/availability?months=0", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailability_ProductNotFound(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	m.products.On("GetByID", mock.Anything, productID).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/availability", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// GET /api/v1/products/{id}/occupied-dates
// ============================================================================

func TestGetOccupiedDates(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	m.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	m.cache.On("Get", mock.Anything, productID, 1, mock.Anything).Return(nil, apperrors.ErrNotFound)
	m.reservations.On("FindOverlapping", mock.Anything, productID, mock.Anything).
		Return([]domain.Reservation{*sampleReservation()}, nil)
	m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/occupied-dates?months=1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data OccupiedDatesResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, productID, resp.Data.ProductID)
	assert.Len(t, resp.Data.OccupiedDates, 6)
}

// ============================================================================
// GET /api/v1/products/{id}/availability/check
// ============================================================================

func TestCheckAvailability_Free(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	m.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	m.reservations.On("FindOverlapping", mock.Anything, productID, mock.Anything).
		Return([]domain.Reservation{}, nil)

	start := futureDate(20).Format(domain.DateFormat)
	end := futureDate(25).Format(domain.DateFormat)
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/products/"+productID+"/availability/check?start="+start+"&end="+end, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data CheckAvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Data.Available)
	assert.Equal(t, start, resp.Data.StartDate)
}

func TestCheckAvailability_Occupied(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	m.products.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)
	m.reservations.On("FindOverlapping", mock.Anything, productID, mock.Anything).
		Return([]domain.Reservation{*sampleReservation()}, nil)

	start := futureDate(10).Format(domain.DateFormat)
	end := futureDate(12).Format(domain.DateFormat)
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/products/"+productID+"/availability/check?start="+start+"&end="+end, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data CheckAvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Data.Available)
}

func TestCheckAvailability_MissingDates(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/availability/check", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckAvailability_BadDateFormat(t *testing.T) {
	m := newMocks()
	router := setupRouter(m)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/products/"+productID+"/availability/check?start=2030-06-10&end=tomorrow", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

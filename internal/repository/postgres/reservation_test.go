package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Belgregori/AutoRent/internal/domain"
	"github.com/Belgregori/AutoRent/internal/repository"
	"github.com/Belgregori/AutoRent/pkg/database"
	apperrors "github.com/Belgregori/AutoRent/pkg/errors"
)

// --- Test Helpers ---

func newTestRepo(t *testing.T) (*ReservationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewReservationRepository(mock)
	return repo, mock
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleReservation() *domain.Reservation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Reservation{
		ID:         "res-001",
		ProductID:  "prod-001",
		UserID:     "user-001",
		StartDate:  date(2026, time.June, 10),
		EndDate:    date(2026, time.June, 15),
		DaysCount:  6,
		TotalPrice: 30000,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func reservationRows(reservations ...*domain.Reservation) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "product_id", "user_id", "start_date", "end_date",
		"days_count", "total_price", "status", "created_at", "updated_at",
	})
	for _, r := range reservations {
		rows.AddRow(r.ID, r.ProductID, r.UserID, r.StartDate, r.EndDate,
			r.DaysCount, r.TotalPrice, r.Status, r.CreatedAt, r.UpdatedAt)
	}
	return rows
}

// --- Create Tests ---

func TestReservationRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	r := sampleReservation()

	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(
			r.ID, r.ProductID, r.UserID,
			r.StartDate, r.EndDate, r.DaysCount, r.TotalPrice,
			r.Status, r.CreatedAt, r.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), r)
	require.NoError(t, err)
}

func TestReservationRepository_Create_ExclusionViolation(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	r := sampleReservation()

	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(
			r.ID, r.ProductID, r.UserID,
			r.StartDate, r.EndDate, r.DaysCount, r.TotalPrice,
			r.Status, r.CreatedAt, r.UpdatedAt,
		).
		WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"})

	err := repo.Create(context.Background(), r)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

// --- GetByID Tests ---

func TestReservationRepository_GetByID_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	r := sampleReservation()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id =").
		WithArgs(r.ID).
		WillReturnRows(reservationRows(r))

	got, err := repo.GetByID(context.Background(), r.ID)

	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.StartDate, got.StartDate)
	assert.Equal(t, r.Status, got.Status)
}

func TestReservationRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id =").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing-id")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- List Tests ---

func TestReservationRepository_List_WithFilters(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	r := sampleReservation()
	status := domain.StatusPending

	rows := pgxmock.NewRows([]string{
		"id", "product_id", "user_id", "start_date", "end_date",
		"days_count", "total_price", "status", "created_at", "updated_at", "total_count",
	}).AddRow(r.ID, r.ProductID, r.UserID, r.StartDate, r.EndDate,
		r.DaysCount, r.TotalPrice, r.Status, r.CreatedAt, r.UpdatedAt, 7)

	mock.ExpectQuery("SELECT (.+) count\\(\\*\\) OVER\\(\\) AS total_count FROM reservations WHERE product_id = (.+) AND status =").
		WithArgs(r.ProductID, status, 10, 10).
		WillReturnRows(rows)

	got, total, err := repo.List(context.Background(), repository.ReservationFilter{
		ProductID: &r.ProductID,
		Status:    &status,
		Page:      2,
		PerPage:   10,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
}

func TestReservationRepository_List_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	rows := pgxmock.NewRows([]string{
		"id", "product_id", "user_id", "start_date", "end_date",
		"days_count", "total_price", "status", "created_at", "updated_at", "total_count",
	})

	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WithArgs(20, 0).
		WillReturnRows(rows)

	got, total, err := repo.List(context.Background(), repository.ReservationFilter{Page: 1, PerPage: 20})

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, got)
}

// --- ListByUser Tests ---

func TestReservationRepository_ListByUser(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	r := sampleReservation()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE user_id = (.+) ORDER BY created_at DESC").
		WithArgs(r.UserID).
		WillReturnRows(reservationRows(r))

	got, err := repo.ListByUser(context.Background(), r.UserID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
}

// --- FindOverlapping Tests ---

func TestReservationRepository_FindOverlapping(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	r := sampleReservation()
	rng := domain.DateRange{Start: date(2026, time.June, 12), End: date(2026, time.June, 20)}

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE product_id = (.+) AND status <> 'canceled' AND NOT").
		WithArgs(r.ProductID, rng.Start, rng.End).
		WillReturnRows(reservationRows(r))

	got, err := repo.FindOverlapping(context.Background(), r.ProductID, rng)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
}

func TestReservationRepository_FindOverlapping_None(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	rng := domain.DateRange{Start: date(2026, time.July, 1), End: date(2026, time.July, 5)}

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE product_id =").
		WithArgs("prod-001", rng.Start, rng.End).
		WillReturnRows(reservationRows())

	got, err := repo.FindOverlapping(context.Background(), "prod-001", rng)

	require.NoError(t, err)
	assert.Empty(t, got)
}

// --- UpdateStatus Tests ---

func TestReservationRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE reservations SET status =").
		WithArgs(domain.StatusConfirmed, pgxmock.AnyArg(), "res-001", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "res-001", domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)
}

func TestReservationRepository_UpdateStatus_StatusMoved(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE reservations SET status =").
		WithArgs(domain.StatusConfirmed, pgxmock.AnyArg(), "res-001", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("res-001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.UpdateStatus(context.Background(), "res-001", domain.StatusPending, domain.StatusConfirmed)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestReservationRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE reservations SET status =").
		WithArgs(domain.StatusConfirmed, pgxmock.AnyArg(), "missing-id", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("missing-id").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.UpdateStatus(context.Background(), "missing-id", domain.StatusPending, domain.StatusConfirmed)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Delete Tests ---

func TestReservationRepository_Delete_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("DELETE FROM reservations WHERE id =").
		WithArgs("res-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "res-001")
	require.NoError(t, err)
}

func TestReservationRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("DELETE FROM reservations WHERE id =").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing-id")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- CountByStatus Tests ---

func TestReservationRepository_CountByStatus(t *testing.T) {
	repo, mock := newTestRepo(t)
	defer mock.ExpectationsWereMet()

	rows := pgxmock.NewRows([]string{"status", "count"}).
		AddRow(domain.StatusPending, int64(4)).
		AddRow(domain.StatusCanceled, int64(1))

	mock.ExpectQuery("SELECT status, count\\(\\*\\) FROM reservations GROUP BY status").
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), counts[domain.StatusPending])
	assert.Equal(t, int64(1), counts[domain.StatusCanceled])
	assert.NotContains(t, counts, domain.StatusConfirmed)
}

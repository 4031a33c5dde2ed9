package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Belgregori/AutoRent/internal/domain"
	"github.com/Belgregori/AutoRent/internal/repository"
	"github.com/Belgregori/AutoRent/pkg/database"
	apperrors "github.com/Belgregori/AutoRent/pkg/errors"
)

// exclusionViolation is the SQLSTATE raised when an insert collides with the
// reservations_no_overlap exclusion constraint.
const exclusionViolation = "23P01"

const reservationColumns = "id, product_id, user_id, start_date, end_date, days_count, total_price, status, created_at, updated_at"

// ReservationRepository implements repository.ReservationRepository using PostgreSQL.
type ReservationRepository struct {
	pool database.DBTX
}

// NewReservationRepository creates a new PostgreSQL-backed reservation repository.
func NewReservationRepository(pool database.DBTX) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// Create inserts a new reservation. The reservations table carries an
// exclusion constraint over (product_id, daterange(start_date, end_date, '[]'))
// for non-canceled rows, so two overlapping inserts cannot both commit even
// when both passed the service-level conflict check; the loser surfaces as a
// conflict error here.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, product_id, user_id, start_date, end_date, days_count, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		res.ID,
		res.ProductID,
		res.UserID,
		res.StartDate,
		res.EndDate,
		res.DaysCount,
		res.TotalPrice,
		res.Status,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return apperrors.Conflict("product is not available in the requested date range")
		}
		return fmt.Errorf("insert reservation: %w", err)
	}

	return nil
}

// GetByID retrieves a reservation by its ID.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1`

	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return res, nil
}

// List returns reservations matching the filter with the total count.
func (r *ReservationRepository) List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() returns the total alongside each row in one query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM reservations
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		reservationColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var totalCount int
	reservations := make([]domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.ProductID,
			&res.UserID,
			&res.StartDate,
			&res.EndDate,
			&res.DaysCount,
			&res.TotalPrice,
			&res.Status,
			&res.CreatedAt,
			&res.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation row: %w", err)
		}
		res.StartDate = domain.NormalizeDate(res.StartDate)
		res.EndDate = domain.NormalizeDate(res.EndDate)
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return reservations, totalCount, nil
}

// ListByUser returns a user's reservations ordered by creation time, newest first.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.queryReservations(ctx, query, userID)
}

// FindOverlapping returns non-canceled reservations for the product whose
// inclusive range overlaps [rng.Start, rng.End]. The predicate mirrors the
// domain overlap test: NOT (end < start' OR start > end').
func (r *ReservationRepository) FindOverlapping(ctx context.Context, productID string, rng domain.DateRange) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE product_id = $1
		  AND status <> '` + domain.StatusCanceled + `'
		  AND NOT (end_date < $2 OR start_date > $3)
		ORDER BY start_date`

	return r.queryReservations(ctx, query, productID, rng.Start, rng.End)
}

// UpdateStatus performs a compare-and-swap status transition. A row whose
// status has moved since it was read is left untouched and reported as a
// conflict so the caller can re-read and decide.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`

	ct, err := r.pool.Exec(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)", id).Scan(&exists); err != nil {
			return fmt.Errorf("check reservation existence: %w", err)
		}
		if !exists {
			return apperrors.NotFound("reservation", id)
		}
		return apperrors.ErrConflict
	}

	return nil
}

// Delete removes a reservation permanently.
func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, "DELETE FROM reservations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("reservation", id)
	}

	return nil
}

// CountByStatus returns the number of reservations in each status.
func (r *ReservationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, "SELECT status, count(*) FROM reservations GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count reservations by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.ProductID,
			&res.UserID,
			&res.StartDate,
			&res.EndDate,
			&res.DaysCount,
			&res.TotalPrice,
			&res.Status,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		res.StartDate = domain.NormalizeDate(res.StartDate)
		res.EndDate = domain.NormalizeDate(res.EndDate)
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}

	return reservations, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.ProductID,
		&res.UserID,
		&res.StartDate,
		&res.EndDate,
		&res.DaysCount,
		&res.TotalPrice,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.StartDate = domain.NormalizeDate(res.StartDate)
	res.EndDate = domain.NormalizeDate(res.EndDate)
	return &res, nil
}

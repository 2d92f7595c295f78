package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"barbershop-booking/internal/data/entity"
	"barbershop-booking/internal/slot"
	"barbershop-booking/pkg/apperror"
	"barbershop-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

const bookingColumns = `id, customer_id, shop_id, service_id, employee_id, booking_date, booking_time,
		       duration_minutes, status, notes, created_at, updated_at`

// ConflictQuery describes a prospective occupation of [Start, Start+DurationMinutes).
type ConflictQuery struct {
	ShopID          int64
	Date            time.Time
	Start           slot.TimeOfDay
	DurationMinutes int
	// EmployeeID narrows the check to that employee plus shop-wide bookings.
	// Nil checks against every active booking at the shop.
	EmployeeID *int64
	// ExcludeID skips the booking being rescheduled. uuid.Nil excludes nothing.
	ExcludeID uuid.UUID
}

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByCustomerID(ctx context.Context, customerID int64) ([]*entity.Booking, error)
	FindActiveByShopAndDate(ctx context.Context, shopID int64, date time.Time) ([]*entity.Booking, error)
	// FindActiveByShopAndDateAndEmployee returns the employee's active bookings and
	// every active booking that has no employee assigned.
	FindActiveByShopAndDateAndEmployee(ctx context.Context, shopID int64, date time.Time, employeeID int64) ([]*entity.Booking, error)

	// WithinTx runs fn in one transaction. Returning an error rolls it back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
}

// BookingTx is the write surface available inside WithinTx.
type BookingTx interface {
	// LockDay serializes writers touching the same shop calendar day until the transaction ends.
	LockDay(ctx context.Context, shopID int64, date time.Time) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	ExistsActiveConflict(ctx context.Context, q ConflictQuery) (bool, error)
	Insert(ctx context.Context, booking *entity.Booking) error
	Update(ctx context.Context, booking *entity.Booking) error
	AppendEvent(ctx context.Context, eventType string, booking *entity.Booking) error
}

type bookingRepository struct {
	db      database.PgxIface
	timeout time.Duration
	log     *zap.Logger
}

func NewBookingRepository(db database.PgxIface, timeout time.Duration, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:      db,
		timeout: timeout,
		log:     log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return findBookingByID(ctx, r.db, r.log, id, false)
}

func (r *bookingRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*entity.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1
		ORDER BY booking_date DESC, booking_time DESC
	`

	bookings, err := queryBookings(ctx, r.db, query, customerID)
	if err != nil {
		r.log.Error("Failed to find bookings by customer ID",
			zap.Error(err),
			zap.Int64("customer_id", customerID),
		)
		return nil, fmt.Errorf("find bookings by customer ID %d: %w", customerID, err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindActiveByShopAndDate(ctx context.Context, shopID int64, date time.Time) ([]*entity.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE shop_id = $1 AND booking_date = $2 AND status IN ('PENDING', 'CONFIRMED')
		ORDER BY booking_time
	`

	bookings, err := queryBookings(ctx, r.db, query, shopID, entity.DateOnly(date))
	if err != nil {
		r.log.Error("Failed to find active bookings by shop and date",
			zap.Error(err),
			zap.Int64("shop_id", shopID),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find active bookings for shop %d: %w", shopID, err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindActiveByShopAndDateAndEmployee(ctx context.Context, shopID int64, date time.Time, employeeID int64) ([]*entity.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE shop_id = $1 AND booking_date = $2 AND status IN ('PENDING', 'CONFIRMED')
		  AND (employee_id = $3 OR employee_id IS NULL)
		ORDER BY booking_time
	`

	bookings, err := queryBookings(ctx, r.db, query, shopID, entity.DateOnly(date), employeeID)
	if err != nil {
		r.log.Error("Failed to find active bookings by shop, date and employee",
			zap.Error(err),
			zap.Int64("shop_id", shopID),
			zap.Int64("employee_id", employeeID),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find active bookings for shop %d employee %d: %w", shopID, employeeID, err)
	}

	return bookings, nil
}

func (r *bookingRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin booking transaction", zap.Error(err))
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &bookingTx{tx: tx, log: r.log}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit booking transaction", zap.Error(err))
		return classifyWriteError(fmt.Errorf("commit booking tx: %w", err))
	}

	return nil
}

type bookingTx struct {
	tx  pgx.Tx
	log *zap.Logger
}

func (t *bookingTx) LockDay(ctx context.Context, shopID int64, date time.Time) error {
	key := fmt.Sprintf("booking:%d:%s", shopID, date.Format(time.DateOnly))
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		t.log.Error("Failed to lock booking day",
			zap.Error(err),
			zap.Int64("shop_id", shopID),
			zap.Time("date", date),
		)
		return fmt.Errorf("lock booking day %s: %w", key, err)
	}
	return nil
}

func (t *bookingTx) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return findBookingByID(ctx, t.tx, t.log, id, true)
}

func (t *bookingTx) ExistsActiveConflict(ctx context.Context, q ConflictQuery) (bool, error) {
	// Minutes since midnight keep the comparison linear when a booking runs past midnight.
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE shop_id = $1
			  AND booking_date = $2
			  AND status IN ('PENDING', 'CONFIRMED')
			  AND ($5::uuid IS NULL OR id <> $5::uuid)
			  AND ($6::bigint IS NULL OR employee_id = $6::bigint OR employee_id IS NULL)
			  AND (EXTRACT(EPOCH FROM booking_time)::int / 60) < $4
			  AND (EXTRACT(EPOCH FROM booking_time)::int / 60) + duration_minutes > $3
		)
	`

	var exclude any
	if q.ExcludeID != uuid.Nil {
		exclude = q.ExcludeID
	}

	interval := slot.NewInterval(q.Start, q.DurationMinutes)

	var exists bool
	err := t.tx.QueryRow(ctx, query,
		q.ShopID,
		entity.DateOnly(q.Date),
		interval.Start.Minutes(),
		interval.End.Minutes(),
		exclude,
		q.EmployeeID,
	).Scan(&exists)
	if err != nil {
		t.log.Error("Failed to check booking conflict",
			zap.Error(err),
			zap.Int64("shop_id", q.ShopID),
			zap.String("start", q.Start.String()),
		)
		return false, fmt.Errorf("check booking conflict: %w", err)
	}

	return exists, nil
}

func (t *bookingTx) Insert(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (customer_id, shop_id, service_id, employee_id, booking_date, booking_time,
		                      duration_minutes, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := t.tx.QueryRow(ctx, query,
		booking.CustomerID,
		booking.ShopID,
		booking.ServiceID,
		booking.EmployeeID,
		entity.DateOnly(booking.Date),
		timeOfDayToPg(booking.StartTime),
		booking.DurationMinutes,
		booking.Status,
		booking.Notes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		t.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.Int64("shop_id", booking.ShopID),
			zap.Int64("customer_id", booking.CustomerID),
		)
		return classifyWriteError(fmt.Errorf("insert booking: %w", err))
	}

	return nil
}

func (t *bookingTx) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET employee_id = $2, booking_date = $3, booking_time = $4, status = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := t.tx.QueryRow(ctx, query,
		booking.ID,
		booking.EmployeeID,
		entity.DateOnly(booking.Date),
		timeOfDayToPg(booking.StartTime),
		booking.Status,
		booking.Notes,
	).Scan(&booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("booking %s not found", booking.ID)
	}
	if err != nil {
		t.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return classifyWriteError(fmt.Errorf("update booking %s: %w", booking.ID, err))
	}

	return nil
}

func (t *bookingTx) AppendEvent(ctx context.Context, eventType string, booking *entity.Booking) error {
	payload, err := json.Marshal(entity.NewBookingEventPayload(booking))
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	_, err = t.tx.Exec(ctx, `
		INSERT INTO outbox_events (aggregate_id, event_type, payload)
		VALUES ($1, $2, $3)
	`, booking.ID, eventType, payload)
	if err != nil {
		t.log.Error("Failed to append outbox event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("append %s event: %w", eventType, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var (
		booking entity.Booking
		start   pgtype.Time
	)
	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.ShopID,
		&booking.ServiceID,
		&booking.EmployeeID,
		&booking.Date,
		&start,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	booking.StartTime = timeOfDayFromPg(start)
	return &booking, nil
}

func findBookingByID(ctx context.Context, q database.Querier, log *zap.Logger, id uuid.UUID, forUpdate bool) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	booking, err := scanBooking(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func queryBookings(ctx context.Context, q database.Querier, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func timeOfDayToPg(t slot.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Minutes()) * int64(time.Minute/time.Microsecond), Valid: true}
}

func timeOfDayFromPg(t pgtype.Time) slot.TimeOfDay {
	return slot.TimeOfDay(t.Microseconds / int64(time.Minute/time.Microsecond))
}

// classifyWriteError turns a unique violation on the active-start index into a Conflict.
func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperror.Conflict("time slot is already booked")
	}
	return err
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

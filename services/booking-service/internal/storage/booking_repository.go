package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nabil-hossain/chairtime/libs/db"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/availability"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/model"
)

// AppointmentRepository persists appointments. Double bookings are rejected by
// a partial unique index on (barber_id, day, start_minute) WHERE status <>
// 'cancelled'; the availability calculator only advises, this index decides.
type AppointmentRepository struct {
	pool *db.Pool
}

type IdempotencyRecord struct {
	IdempotencyKey  string
	AppointmentID   string
	StatusCode      int
	ResponsePayload []byte
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *AppointmentRepository) LockIdempotencyKey(ctx context.Context, tx pgx.Tx, key string) (IdempotencyRecord, bool, error) {
	rec, err := r.selectIdempotencyForUpdate(ctx, tx, key)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return IdempotencyRecord{}, false, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_idempotency_keys (idempotency_key)
		VALUES ($1)
		ON CONFLICT (idempotency_key) DO NOTHING
	`, key)
	if err != nil {
		return IdempotencyRecord{}, false, err
	}

	rec, err = r.selectIdempotencyForUpdate(ctx, tx, key)
	if err != nil {
		return IdempotencyRecord{}, false, err
	}
	return rec, false, nil
}

func (r *AppointmentRepository) FinalizeIdempotency(ctx context.Context, tx pgx.Tx, key, appointmentID string, statusCode int, response []byte) error {
	_, err := tx.Exec(ctx, `
		UPDATE booking_idempotency_keys
		SET appointment_id = $2,
			status_code = $3,
			response_payload = $4,
			updated_at = now()
		WHERE idempotency_key = $1
	`, key, appointmentID, statusCode, response)
	return err
}

func (r *AppointmentRepository) Create(ctx context.Context, tx pgx.Tx, appt *model.Appointment) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO appointments
			(barber_id, service_id, service_name, price, customer_name, customer_phone, customer_email, day, start_minute, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, appt.BarberID, appt.ServiceID, appt.ServiceName, appt.Price,
		appt.CustomerName, appt.CustomerPhone, appt.CustomerEmail,
		dayArg(appt.Day), int(appt.Start), appt.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *AppointmentRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, barberID, appointmentID string) (model.Appointment, error) {
	row := tx.QueryRow(ctx, selectColumns+`
		FROM appointments
		WHERE id = $1 AND barber_id = $2
		FOR UPDATE
	`, appointmentID, barberID)
	return scanAppointment(row)
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, appointmentID string, status model.Status) error {
	_, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, appointmentID, status)
	return err
}

func (r *AppointmentRepository) Cancel(ctx context.Context, tx pgx.Tx, appointmentID, reason string) error {
	_, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = 'cancelled', cancel_reason = $2, updated_at = now()
		WHERE id = $1
	`, appointmentID, reason)
	return err
}

// ListForDay returns every non-cancelled appointment for one chair on one
// day, ordered by start minute. Feeds both the agenda and the occupied-slot
// input to the calculator.
func (r *AppointmentRepository) ListForDay(ctx context.Context, barberID string, day availability.Date) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, selectColumns+`
		FROM appointments
		WHERE barber_id = $1 AND day = $2 AND status <> 'cancelled'
		ORDER BY start_minute ASC
	`, barberID, dayArg(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// Agenda is ListForDay including cancelled rows, so the admin sees the full
// history of the day.
func (r *AppointmentRepository) Agenda(ctx context.Context, barberID string, day availability.Date) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, selectColumns+`
		FROM appointments
		WHERE barber_id = $1 AND day = $2
		ORDER BY start_minute ASC
	`, barberID, dayArg(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentRepository) ListBetween(ctx context.Context, barberID string, from, to availability.Date, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, selectColumns+`
		FROM appointments
		WHERE barber_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day DESC, start_minute DESC
		LIMIT $4
	`, barberID, dayArg(from), dayArg(to), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// IsConflict reports a unique-violation from the non-cancelled slot index,
// i.e. somebody else booked the same chair and minute first.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

const selectColumns = `
	SELECT id, barber_id, service_id, service_name, price::text,
		customer_name, customer_phone, customer_email,
		day, start_minute, status, COALESCE(cancel_reason, ''), created_at, updated_at`

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var appt model.Appointment
	var day time.Time
	var startMinute int
	var status string
	if err := row.Scan(
		&appt.ID,
		&appt.BarberID,
		&appt.ServiceID,
		&appt.ServiceName,
		&appt.Price,
		&appt.CustomerName,
		&appt.CustomerPhone,
		&appt.CustomerEmail,
		&day,
		&startMinute,
		&status,
		&appt.CancelReason,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return model.Appointment{}, err
	}
	appt.Day = availability.DateOf(day)
	appt.Start = availability.TimeOfDay(startMinute)
	appt.Status = model.Status(status)
	return appt, nil
}

func collectAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

func dayArg(d availability.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (r *AppointmentRepository) selectIdempotencyForUpdate(ctx context.Context, tx pgx.Tx, key string) (IdempotencyRecord, error) {
	var rec IdempotencyRecord
	var responseText string
	err := tx.QueryRow(ctx, `
		SELECT idempotency_key,
			COALESCE(appointment_id::text, ''),
			COALESCE(status_code, 0),
			COALESCE(response_payload::text, '')
		FROM booking_idempotency_keys
		WHERE idempotency_key = $1
		FOR UPDATE
	`, key).Scan(
		&rec.IdempotencyKey,
		&rec.AppointmentID,
		&rec.StatusCode,
		&responseText,
	)
	if err != nil {
		return IdempotencyRecord{}, err
	}
	if responseText != "" {
		rec.ResponsePayload = []byte(responseText)
	}
	return rec, nil
}

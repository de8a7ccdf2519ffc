package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nabil-hossain/chairtime/libs/db"
)

// Statuses that count toward a chair's earnings. Pending appointments are
// not yet committed and cancelled ones never were.
var revenueStatuses = []string{"confirmed", "in_progress", "completed"}

// AppointmentFact is the analytics-side snapshot of an appointment. It is
// upserted from booking events and queried for the earnings view.
type AppointmentFact struct {
	AppointmentID string
	BarberID      string
	ServiceName   string
	Price         string
	Day           string
	Status        string
}

// DailyEarnings is one row of the earnings report.
type DailyEarnings struct {
	Day          string
	Appointments int
	Revenue      string
}

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertAppointment records a booked appointment, replacing the stored
// status and price when the same event is replayed with newer data.
func (r *Repository) UpsertAppointment(ctx context.Context, f AppointmentFact) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment_facts (appointment_id, barber_id, service_name, price, day, status)
		VALUES ($1, $2, $3, $4::numeric, $5::date, $6)
		ON CONFLICT (appointment_id)
		DO UPDATE SET status = EXCLUDED.status,
		              price = EXCLUDED.price,
		              updated_at = now()
	`, f.AppointmentID, f.BarberID, f.ServiceName, f.Price, f.Day, f.Status)
	return err
}

// SetStatus moves a recorded appointment to a new status. Unknown
// appointments are ignored so replays across a fresh database stay quiet.
func (r *Repository) SetStatus(ctx context.Context, appointmentID string, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointment_facts
		SET status = $2, updated_at = now()
		WHERE appointment_id = $1
	`, appointmentID, status)
	return err
}

// Earnings aggregates revenue-bearing appointments per day for one chair
// over an inclusive date range.
func (r *Repository) Earnings(ctx context.Context, barberID string, from string, to string) ([]DailyEarnings, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day::text, COUNT(*), COALESCE(SUM(price), 0)::text
		FROM appointment_facts
		WHERE barber_id = $1
		  AND day >= $2::date
		  AND day <= $3::date
		  AND status = ANY($4)
		GROUP BY day
		ORDER BY day
	`, barberID, from, to, revenueStatuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyEarnings
	for rows.Next() {
		var e DailyEarnings
		if err := rows.Scan(&e.Day, &e.Appointments, &e.Revenue); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EarningsTotal sums the whole range so totals stay exact even when the
// per-day rows are paginated away later.
func (r *Repository) EarningsTotal(ctx context.Context, barberID string, from string, to string) (int, string, error) {
	var count int
	var revenue string
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(price), 0)::text
		FROM appointment_facts
		WHERE barber_id = $1
		  AND day >= $2::date
		  AND day <= $3::date
		  AND status = ANY($4)
	`, barberID, from, to, revenueStatuses).Scan(&count, &revenue)
	if err != nil {
		return 0, "", err
	}
	return count, revenue, nil
}

// RecordNotification stores one delivery attempt and bumps the per-day
// channel counters.
func (r *Repository) RecordNotification(ctx context.Context, appointmentID, barberID, channel, at, status string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_metrics (appointment_id, barber_id, channel, sent_at, status)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
	`, appointmentID, barberID, channel, at, status)
	if err != nil {
		return err
	}
	if barberID == "" || channel == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil
	}
	sentInc := 0
	failedInc := 0
	if status == "sent" {
		sentInc = 1
	} else {
		failedInc = 1
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO daily_notification_metrics (barber_id, day, channel, sent_count, failed_count)
		VALUES ($1, $2::date, $3, $4, $5)
		ON CONFLICT (barber_id, day, channel)
		DO UPDATE SET sent_count = daily_notification_metrics.sent_count + EXCLUDED.sent_count,
		              failed_count = daily_notification_metrics.failed_count + EXCLUDED.failed_count,
		              updated_at = now()
	`, barberID, t.UTC(), channel, sentInc, failedInc)
	return err
}

// RecordSchedulerDLQ keeps dead-lettered reminders visible for follow-up.
func (r *Repository) RecordSchedulerDLQ(ctx context.Context, appointmentID, barberID, channel, recipient string, remindAt time.Time, errorReason, failedAt string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO scheduler_dlq_events (appointment_id, barber_id, channel, recipient, remind_at, error_reason, failed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, appointmentID, barberID, channel, recipient, remindAt, errorReason, failedAt)
	return err
}

// RecordAuditEvent stores a security audit entry emitted by the auth service.
func (r *Repository) RecordAuditEvent(ctx context.Context, eventType, actorID string, metadata json.RawMessage, createdAt string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO security_audit_events (event_type, actor_id, metadata, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4)
	`, eventType, actorID, metadata, createdAt)
	return err
}

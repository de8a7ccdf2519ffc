package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/availability"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/catalog"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/model"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/outbox"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/storage"
)

type BookingHandler struct {
	repo            *storage.AppointmentRepository
	outboxRepo      *outbox.Repository
	shop            *catalog.Catalog
	logger          *slog.Logger
	reminderOffsets []time.Duration
}

func NewBookingHandler(repo *storage.AppointmentRepository, outboxRepo *outbox.Repository, shop *catalog.Catalog, logger *slog.Logger, reminderOffsets []time.Duration) *BookingHandler {
	return &BookingHandler{
		repo:            repo,
		outboxRepo:      outboxRepo,
		shop:            shop,
		logger:          logger,
		reminderOffsets: reminderOffsets,
	}
}

type bookRequest struct {
	BarberID      string `json:"barber_id"`
	ServiceID     string `json:"service_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

type bookResponse struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
}

type appointmentItem struct {
	AppointmentID string              `json:"appointment_id"`
	BarberID      string              `json:"barber_id"`
	ServiceID     string              `json:"service_id"`
	ServiceName   string              `json:"service_name"`
	Price         string              `json:"price"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	CustomerEmail string              `json:"customer_email,omitempty"`
	Date          string              `json:"date"`
	Time          string              `json:"time"`
	Status        string              `json:"status"`
	Display       model.StatusDisplay `json:"display"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	CreatedAt     string              `json:"created_at"`
}

// Barbers serves the public roster for the booking UI.
func (h *BookingHandler) Barbers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"barbers": h.shop.Barbers})
}

// Services serves the public price list.
func (h *BookingHandler) Services(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": h.shop.Services})
}

// Slots returns the bookable start times for one barber on one date. A fully
// booked or elapsed day answers with an empty array, not an error.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	barber, ok := h.shop.Barber(strings.TrimSpace(r.URL.Query().Get("barber_id")))
	if !ok {
		http.Error(w, "unknown barber_id", http.StatusNotFound)
		return
	}
	date, err := availability.ParseDate(strings.TrimSpace(r.URL.Query().Get("date")))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	appts, err := h.repo.ListForDay(r.Context(), barber.ID, date)
	if err != nil {
		h.logger.Error("list appointments failed", "err", err, "barber_id", barber.ID)
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}

	free := availability.AvailableSlots(barber.SlotIntervalMinutes, h.shop.Hours, date, model.OccupiedTimes(appts), h.shop.Now())
	slots := make([]string, 0, len(free))
	for _, s := range free {
		slots = append(slots, s.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"barber_id": barber.ID,
		"date":      date.String(),
		"slots":     slots,
	})
}

// Book creates a pending appointment from the public site. The calculator
// pre-validates the request but the unique index has the final word: a 409
// here means somebody else won the same minute.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)

	if req.CustomerName == "" {
		http.Error(w, "customer_name is required", http.StatusBadRequest)
		return
	}
	if req.CustomerPhone == "" && req.CustomerEmail == "" {
		http.Error(w, "a phone number or email is required", http.StatusBadRequest)
		return
	}

	barber, ok := h.shop.Barber(strings.TrimSpace(req.BarberID))
	if !ok {
		http.Error(w, "unknown barber_id", http.StatusUnprocessableEntity)
		return
	}
	svc, ok := h.shop.Service(strings.TrimSpace(req.ServiceID))
	if !ok {
		http.Error(w, "unknown service_id", http.StatusUnprocessableEntity)
		return
	}
	date, err := availability.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	start, err := availability.ParseTimeOfDay(strings.TrimSpace(req.Time))
	if err != nil {
		http.Error(w, "invalid time", http.StatusBadRequest)
		return
	}

	if !h.slotOnGrid(barber, start) {
		http.Error(w, "time is not a bookable slot", http.StatusUnprocessableEntity)
		return
	}
	if availability.IsPast(date, start, h.shop.Now()) {
		http.Error(w, "time slot is in the past", http.StatusUnprocessableEntity)
		return
	}

	appt := &model.Appointment{
		BarberID:      barber.ID,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		Price:         svc.Price,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Day:           date,
		Start:         start,
		Status:        model.StatusPending,
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idempotencyKey != "" {
		rec, exists, err := h.repo.LockIdempotencyKey(ctx, tx, idempotencyKey)
		if err != nil {
			http.Error(w, "failed to lock idempotency key", http.StatusInternalServerError)
			return
		}
		if exists && rec.StatusCode > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.ResponsePayload)
			return
		}
	}

	id, err := h.repo.Create(ctx, tx, appt)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked", http.StatusConflict)
			return
		}
		h.logger.Error("create appointment failed", "err", err)
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}
	appt.ID = id

	if err := h.insertBookedEvent(tx, r, appt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	h.enqueueReminders(tx, r, appt)

	respBody, _ := json.Marshal(bookResponse{AppointmentID: id, Status: string(appt.Status)})
	if idempotencyKey != "" {
		if err := h.repo.FinalizeIdempotency(ctx, tx, idempotencyKey, id, http.StatusCreated, respBody); err != nil {
			http.Error(w, "failed to finalize idempotency key", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(respBody)
}

// Agenda serves the admin's day view for their own chair.
func (h *BookingHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	barberID, ok := h.adminBarber(w, r)
	if !ok {
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	var date availability.Date
	if dateStr == "" {
		date = availability.DateOf(h.shop.Now())
	} else {
		var err error
		if date, err = availability.ParseDate(dateStr); err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
	}

	appts, err := h.repo.Agenda(r.Context(), barberID, date)
	if err != nil {
		h.logger.Error("agenda query failed", "err", err, "barber_id", barberID)
		http.Error(w, "failed to load agenda", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"barber_id":    barberID,
		"date":         date.String(),
		"appointments": toItems(appts),
	})
}

// List serves appointment history for the admin's chair.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	barberID, ok := h.adminBarber(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	from, err := availability.ParseDate(strings.TrimSpace(q.Get("from")))
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := availability.ParseDate(strings.TrimSpace(q.Get("to")))
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}
	if to.Before(from) {
		http.Error(w, "to must not precede from", http.StatusBadRequest)
		return
	}
	limit := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	appts, err := h.repo.ListBetween(r.Context(), barberID, from, to, limit)
	if err != nil {
		h.logger.Error("list query failed", "err", err, "barber_id", barberID)
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": toItems(appts)})
}

// ManualCreate records a walk-in on the admin's chair. Slots earlier today
// are accepted (the cut already happened), earlier dates are not.
func (h *BookingHandler) ManualCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	barberID, ok := h.adminBarber(w, r)
	if !ok {
		return
	}
	barber, ok := h.shop.Barber(barberID)
	if !ok {
		http.Error(w, "token barber is not in the catalog", http.StatusForbidden)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" {
		http.Error(w, "customer_name is required", http.StatusBadRequest)
		return
	}

	svc, ok := h.shop.Service(strings.TrimSpace(req.ServiceID))
	if !ok {
		http.Error(w, "unknown service_id", http.StatusUnprocessableEntity)
		return
	}
	date, err := availability.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	start, err := availability.ParseTimeOfDay(strings.TrimSpace(req.Time))
	if err != nil {
		http.Error(w, "invalid time", http.StatusBadRequest)
		return
	}
	if !h.slotOnGrid(barber, start) {
		http.Error(w, "time is not a bookable slot", http.StatusUnprocessableEntity)
		return
	}
	if date.Before(availability.DateOf(h.shop.Now())) {
		http.Error(w, "date is in the past", http.StatusUnprocessableEntity)
		return
	}

	appt := &model.Appointment{
		BarberID:      barber.ID,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		Price:         svc.Price,
		CustomerName:  req.CustomerName,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Day:           date,
		Start:         start,
		Status:        model.StatusConfirmed,
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := h.repo.Create(ctx, tx, appt)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked", http.StatusConflict)
			return
		}
		h.logger.Error("manual create failed", "err", err, "barber_id", barber.ID)
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}
	appt.ID = id

	if err := h.insertBookedEvent(tx, r, appt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	h.enqueueReminders(tx, r, appt)

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, bookResponse{AppointmentID: id, Status: string(appt.Status)})
}

type statusRequest struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
}

// UpdateStatus moves an appointment along the lifecycle. Transitions outside
// the table are rejected; cancellation goes through Cancel so a reason is
// always recorded.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	barberID, ok := h.adminBarber(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	next, err := model.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}
	if next == model.StatusCancelled {
		http.Error(w, "use the cancel endpoint", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, barberID, strings.TrimSpace(req.AppointmentID))
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	if !appt.Status.CanTransitionTo(next) {
		http.Error(w, "invalid status transition", http.StatusUnprocessableEntity)
		return
	}

	if err := h.repo.UpdateStatus(ctx, tx, appt.ID, next); err != nil {
		http.Error(w, "failed to update status", http.StatusInternalServerError)
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"barber_id":      appt.BarberID,
		"price":          appt.Price,
		"from_status":    string(appt.Status),
		"to_status":      string(next),
		"date":           appt.Day.String(),
		"time":           appt.Start.String(),
	})
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentStatusChanged,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointment_id": appt.ID,
		"status":         string(next),
		"display":        next.Display(),
	})
}

type cancelRequest struct {
	AppointmentID string `json:"appointment_id"`
	Reason        string `json:"reason"`
}

// Cancel frees the slot. Cancelling an already-cancelled appointment is a
// no-op success so retries are harmless.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	barberID, ok := h.adminBarber(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, barberID, strings.TrimSpace(req.AppointmentID))
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	if appt.Status == model.StatusCancelled {
		writeJSON(w, http.StatusOK, map[string]any{"appointment_id": appt.ID, "status": string(appt.Status)})
		return
	}
	if !appt.Status.CanTransitionTo(model.StatusCancelled) {
		http.Error(w, "appointment can no longer be cancelled", http.StatusUnprocessableEntity)
		return
	}

	if err := h.repo.Cancel(ctx, tx, appt.ID, strings.TrimSpace(req.Reason)); err != nil {
		http.Error(w, "failed to cancel appointment", http.StatusInternalServerError)
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"barber_id":      appt.BarberID,
		"price":          appt.Price,
		"customer_email": appt.CustomerEmail,
		"customer_phone": appt.CustomerPhone,
		"date":           appt.Day.String(),
		"time":           appt.Start.String(),
		"reason":         strings.TrimSpace(req.Reason),
	})
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentCancelled,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointment_id": appt.ID, "status": string(model.StatusCancelled)})
}

// slotOnGrid reports whether t is one of the barber's generated start times.
func (h *BookingHandler) slotOnGrid(b catalog.Barber, t availability.TimeOfDay) bool {
	if t < h.shop.Hours.Open || t >= h.shop.Hours.Close {
		return false
	}
	return int(t-h.shop.Hours.Open)%b.SlotIntervalMinutes == 0
}

// adminBarber resolves the acting chair from the identity headers the gateway
// injects after verifying the JWT.
func (h *BookingHandler) adminBarber(w http.ResponseWriter, r *http.Request) (string, bool) {
	barberID := strings.TrimSpace(r.Header.Get("X-Barber-Id"))
	if barberID == "" {
		http.Error(w, "missing barber identity", http.StatusUnauthorized)
		return "", false
	}
	return barberID, true
}

func (h *BookingHandler) insertBookedEvent(tx pgx.Tx, r *http.Request, appt *model.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"barber_id":      appt.BarberID,
		"service_id":     appt.ServiceID,
		"service_name":   appt.ServiceName,
		"price":          appt.Price,
		"customer_name":  appt.CustomerName,
		"customer_email": appt.CustomerEmail,
		"customer_phone": appt.CustomerPhone,
		"date":           appt.Day.String(),
		"time":           appt.Start.String(),
		"status":         string(appt.Status),
	})
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(r.Context(), tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentBooked,
		Payload:       payload,
	})
}

// enqueueReminders writes one reminder-request event per offset and channel.
// Offsets already behind the clock are skipped.
func (h *BookingHandler) enqueueReminders(tx pgx.Tx, r *http.Request, appt *model.Appointment) {
	now := h.shop.Now()
	slotAt := time.Date(appt.Day.Year, appt.Day.Month, appt.Day.Day, int(appt.Start)/60, int(appt.Start)%60, 0, 0, h.shop.Location)

	for _, offset := range h.reminderOffsets {
		remindAt := slotAt.Add(-offset)
		if !remindAt.After(now) {
			continue
		}
		if appt.CustomerEmail != "" {
			h.enqueueReminder(tx, r, appt, remindAt, "email", appt.CustomerEmail)
		}
		if appt.CustomerPhone != "" {
			h.enqueueReminder(tx, r, appt, remindAt, "sms", appt.CustomerPhone)
		}
	}
}

func (h *BookingHandler) enqueueReminder(tx pgx.Tx, r *http.Request, appt *model.Appointment, remindAt time.Time, channel, recipient string) {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"barber_id":      appt.BarberID,
		"channel":        channel,
		"recipient":      recipient,
		"remind_at":      remindAt.UTC().Format(time.RFC3339),
		"template_data": map[string]any{
			"service_name":  appt.ServiceName,
			"customer_name": appt.CustomerName,
			"date":          appt.Day.String(),
			"time":          appt.Start.String(),
		},
	})
	if err != nil {
		h.logger.Warn("reminder payload marshal failed", "err", err, "appointment_id", appt.ID)
		return
	}
	if err := h.outboxRepo.Insert(r.Context(), tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventReminderRequested,
		Payload:       payload,
	}); err != nil {
		h.logger.Warn("reminder enqueue failed", "err", err, "appointment_id", appt.ID, "channel", channel)
	}
}

func toItems(appts []model.Appointment) []appointmentItem {
	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, appointmentItem{
			AppointmentID: a.ID,
			BarberID:      a.BarberID,
			ServiceID:     a.ServiceID,
			ServiceName:   a.ServiceName,
			Price:         a.Price,
			CustomerName:  a.CustomerName,
			CustomerPhone: a.CustomerPhone,
			CustomerEmail: a.CustomerEmail,
			Date:          a.Day.String(),
			Time:          a.Start.String(),
			Status:        string(a.Status),
			Display:       a.Status.Display(),
			CancelReason:  a.CancelReason,
			CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

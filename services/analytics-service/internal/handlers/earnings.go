package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nabil-hossain/chairtime/services/analytics-service/internal/storage"
)

type EarningsHandler struct {
	repo   *storage.Repository
	logger *slog.Logger
}

func NewEarningsHandler(repo *storage.Repository, logger *slog.Logger) *EarningsHandler {
	return &EarningsHandler{repo: repo, logger: logger}
}

type earningsDay struct {
	Date         string `json:"date"`
	Appointments int    `json:"appointments"`
	Revenue      string `json:"revenue"`
}

type earningsResponse struct {
	BarberID          string        `json:"barber_id"`
	From              string        `json:"from"`
	To                string        `json:"to"`
	Days              []earningsDay `json:"days"`
	TotalAppointments int           `json:"total_appointments"`
	TotalRevenue      string        `json:"total_revenue"`
}

// Earnings reports revenue-bearing appointments per day for the chair named
// in the gateway identity headers. Defaults to the last 30 days.
func (h *EarningsHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	barberID := strings.TrimSpace(r.Header.Get("X-Barber-Id"))
	if barberID == "" {
		http.Error(w, "missing barber identity", http.StatusUnauthorized)
		return
	}

	today := time.Now().UTC()
	from := today.AddDate(0, 0, -29).Format("2006-01-02")
	to := today.Format("2006-01-02")
	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		from = v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		to = v
	}
	if from > to {
		http.Error(w, "from must not be after to", http.StatusBadRequest)
		return
	}

	rows, err := h.repo.Earnings(r.Context(), barberID, from, to)
	if err != nil {
		h.logger.Error("earnings query failed", "err", err, "barber_id", barberID)
		http.Error(w, "failed to load earnings", http.StatusInternalServerError)
		return
	}
	totalAppointments, totalRevenue, err := h.repo.EarningsTotal(r.Context(), barberID, from, to)
	if err != nil {
		h.logger.Error("earnings total failed", "err", err, "barber_id", barberID)
		http.Error(w, "failed to load earnings", http.StatusInternalServerError)
		return
	}

	days := make([]earningsDay, 0, len(rows))
	for _, row := range rows {
		days = append(days, earningsDay{Date: row.Day, Appointments: row.Appointments, Revenue: row.Revenue})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(earningsResponse{
		BarberID:          barberID,
		From:              from,
		To:                to,
		Days:              days,
		TotalAppointments: totalAppointments,
		TotalRevenue:      totalRevenue,
	})
}

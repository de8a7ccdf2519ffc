package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nabil-hossain/chairtime/libs/config"
	"github.com/nabil-hossain/chairtime/libs/db"
	"github.com/nabil-hossain/chairtime/libs/httpx"
	"github.com/nabil-hossain/chairtime/libs/kafkax"
	otelx "github.com/nabil-hossain/chairtime/libs/otel"
	"github.com/nabil-hossain/chairtime/libs/runtime"
	"github.com/nabil-hossain/chairtime/services/analytics-service/internal/consumer"
	"github.com/nabil-hossain/chairtime/services/analytics-service/internal/handlers"
	"github.com/nabil-hossain/chairtime/services/analytics-service/internal/inbox"
	"github.com/nabil-hossain/chairtime/services/analytics-service/internal/storage"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "analytics-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	inboxRepo := inbox.NewRepository(pool)
	metricsRepo := storage.NewRepository(pool)

	brokers := config.String("KAFKA_BROKERS", "")
	groupID := config.String("KAFKA_GROUP_ID", "analytics-service")

	bookedConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   "booking.appointment.booked.v1",
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			AppointmentID string `json:"appointment_id"`
			BarberID      string `json:"barber_id"`
			ServiceName   string `json:"service_name"`
			Price         string `json:"price"`
			Date          string `json:"date"`
			Status        string `json:"status"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid booked payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" || payload.BarberID == "" || payload.Date == "" || payload.Status == "" {
			logger.Error("missing booked fields")
			return nil
		}
		if _, err := time.Parse("2006-01-02", payload.Date); err != nil {
			logger.Error("invalid booked date", "err", err)
			return nil
		}
		if payload.Price == "" {
			payload.Price = "0"
		}

		if err := metricsRepo.UpsertAppointment(ctx, storage.AppointmentFact{
			AppointmentID: payload.AppointmentID,
			BarberID:      payload.BarberID,
			ServiceName:   payload.ServiceName,
			Price:         payload.Price,
			Day:           payload.Date,
			Status:        payload.Status,
		}); err != nil {
			logger.Error("failed to record appointment", "err", err)
			return err
		}

		logger.Info("appointment recorded", "appointment_id", payload.AppointmentID, "barber_id", payload.BarberID)
		return nil
	})
	go bookedConsumer.Run(ctx)

	cancelConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   "booking.appointment.cancelled.v1",
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			AppointmentID string `json:"appointment_id"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid cancelled payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" {
			logger.Error("missing cancelled fields")
			return nil
		}

		if err := metricsRepo.SetStatus(ctx, payload.AppointmentID, "cancelled"); err != nil {
			logger.Error("failed to record cancellation", "err", err)
			return err
		}

		logger.Info("cancellation recorded", "appointment_id", payload.AppointmentID)
		return nil
	})
	go cancelConsumer.Run(ctx)

	statusConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   "booking.appointment.status_changed.v1",
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			AppointmentID string `json:"appointment_id"`
			ToStatus      string `json:"to_status"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid status payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" || payload.ToStatus == "" {
			logger.Error("missing status fields")
			return nil
		}

		if err := metricsRepo.SetStatus(ctx, payload.AppointmentID, payload.ToStatus); err != nil {
			logger.Error("failed to record status change", "err", err)
			return err
		}

		logger.Info("status change recorded", "appointment_id", payload.AppointmentID, "status", payload.ToStatus)
		return nil
	})
	go statusConsumer.Run(ctx)

	sentConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   "notification.sent.v1",
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			AppointmentID string `json:"appointment_id"`
			BarberID      string `json:"barber_id"`
			Channel       string `json:"channel"`
			SentAt        string `json:"sent_at"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid event payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" || payload.Channel == "" || payload.SentAt == "" {
			logger.Error("missing event fields")
			return nil
		}
		if _, err := time.Parse(time.RFC3339, payload.SentAt); err != nil {
			logger.Error("invalid sent_at", "err", err)
			return nil
		}

		if err := metricsRepo.RecordNotification(ctx, payload.AppointmentID, payload.BarberID, payload.Channel, payload.SentAt, "sent"); err != nil {
			logger.Error("failed to write metrics", "err", err)
			return err
		}

		logger.Info("notification metric recorded", "appointment_id", payload.AppointmentID, "channel", payload.Channel)
		return nil
	})
	go sentConsumer.Run(ctx)

	failedConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   "notification.failed.v1",
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			AppointmentID string `json:"appointment_id"`
			BarberID      string `json:"barber_id"`
			Channel       string `json:"channel"`
			ErrorReason   string `json:"error_reason"`
			FailedAt      string `json:"failed_at"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid failed payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" || payload.Channel == "" || payload.ErrorReason == "" || payload.FailedAt == "" {
			logger.Error("missing failed fields")
			return nil
		}
		if _, err := time.Parse(time.RFC3339, payload.FailedAt); err != nil {
			logger.Error("invalid failed_at", "err", err)
			return nil
		}

		if err := metricsRepo.RecordNotification(ctx, payload.AppointmentID, payload.BarberID, payload.Channel, payload.FailedAt, "failed"); err != nil {
			logger.Error("failed to write failed metrics", "err", err)
			return err
		}

		logger.Info("notification failure recorded", "appointment_id", payload.AppointmentID, "channel", payload.Channel)
		return nil
	})
	go failedConsumer.Run(ctx)

	dlqConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   "scheduler.reminder.dlq.v1",
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			AppointmentID string `json:"appointment_id"`
			BarberID      string `json:"barber_id"`
			Channel       string `json:"channel"`
			Recipient     string `json:"recipient"`
			RemindAt      string `json:"remind_at"`
			ErrorReason   string `json:"error_reason"`
			FailedAt      string `json:"failed_at"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid dlq payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" || payload.BarberID == "" || payload.Channel == "" || payload.Recipient == "" || payload.RemindAt == "" || payload.ErrorReason == "" || payload.FailedAt == "" {
			logger.Error("missing dlq fields")
			return nil
		}
		if _, err := time.Parse(time.RFC3339, payload.FailedAt); err != nil {
			logger.Error("invalid failed_at", "err", err)
			return nil
		}
		remindAt, err := time.Parse(time.RFC3339, payload.RemindAt)
		if err != nil {
			logger.Error("invalid remind_at", "err", err)
			return nil
		}

		if err := metricsRepo.RecordSchedulerDLQ(ctx, payload.AppointmentID, payload.BarberID, payload.Channel, payload.Recipient, remindAt, payload.ErrorReason, payload.FailedAt); err != nil {
			logger.Error("failed to write dlq event", "err", err)
			return err
		}

		logger.Warn("scheduler dlq recorded", "appointment_id", payload.AppointmentID, "channel", payload.Channel)
		return nil
	})
	go dlqConsumer.Run(ctx)

	authAuditConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   "auth.audit.v1",
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			EventType string          `json:"event_type"`
			ActorID   string          `json:"actor_id"`
			Metadata  json.RawMessage `json:"metadata"`
			CreatedAt string          `json:"created_at"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid auth audit payload", "err", err)
			return nil
		}
		if payload.EventType == "" || payload.CreatedAt == "" {
			logger.Error("missing auth audit fields")
			return nil
		}
		if _, err := time.Parse(time.RFC3339, payload.CreatedAt); err != nil {
			logger.Error("invalid auth audit created_at", "err", err)
			return nil
		}

		if err := metricsRepo.RecordAuditEvent(ctx, payload.EventType, payload.ActorID, payload.Metadata, payload.CreatedAt); err != nil {
			logger.Error("failed to write security audit event", "err", err)
			return err
		}

		logger.Info("security audit recorded", "event_type", payload.EventType)
		return nil
	})
	go authAuditConsumer.Run(ctx)

	earningsHandler := handlers.NewEarningsHandler(metricsRepo, logger)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	mux.HandleFunc("/api/v1/admin/earnings", earningsHandler.Earnings)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "analytics")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

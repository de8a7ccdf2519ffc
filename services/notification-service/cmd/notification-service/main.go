package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nabil-hossain/chairtime/libs/config"
	"github.com/nabil-hossain/chairtime/libs/db"
	"github.com/nabil-hossain/chairtime/libs/httpx"
	"github.com/nabil-hossain/chairtime/libs/kafkax"
	otelx "github.com/nabil-hossain/chairtime/libs/otel"
	"github.com/nabil-hossain/chairtime/libs/runtime"
	"github.com/nabil-hossain/chairtime/services/notification-service/internal/consumer"
	"github.com/nabil-hossain/chairtime/services/notification-service/internal/email"
	"github.com/nabil-hossain/chairtime/services/notification-service/internal/inbox"
	"github.com/nabil-hossain/chairtime/services/notification-service/internal/outbox"
	"github.com/nabil-hossain/chairtime/services/notification-service/internal/sms"
	"github.com/nabil-hossain/chairtime/services/notification-service/internal/storage"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type reminderPayload struct {
	AppointmentID string         `json:"appointment_id"`
	BarberID      string         `json:"barber_id"`
	Channel       string         `json:"channel"`
	Recipient     string         `json:"recipient"`
	RemindAt      string         `json:"remind_at"`
	TemplateData  map[string]any `json:"template_data"`
}

type bookedPayload struct {
	AppointmentID string `json:"appointment_id"`
	BarberID      string `json:"barber_id"`
	ServiceName   string `json:"service_name"`
	Price         string `json:"price"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// delivery carries what the outbox events need regardless of which
// upstream topic triggered the send.
type delivery struct {
	AppointmentID string
	BarberID      string
	Channel       string
	Recipient     string
	Kind          string
	TemplateData  map[string]any
}

func writeOutboxSent(ctx context.Context, pool *db.Pool, outboxRepo *outbox.Repository, d delivery, providerID string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if strings.TrimSpace(providerID) == "" {
		providerID = "unknown"
	}
	eventPayload, err := json.Marshal(map[string]any{
		"appointment_id": d.AppointmentID,
		"barber_id":      d.BarberID,
		"channel":        d.Channel,
		"kind":           d.Kind,
		"provider_id":    providerID,
		"sent_at":        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if err := outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "notification",
		AggregateID:   d.AppointmentID,
		EventType:     outbox.EventSent,
		Payload:       eventPayload,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func writeOutboxFailed(ctx context.Context, pool *db.Pool, outboxRepo *outbox.Repository, d delivery, reason string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	eventPayload, err := json.Marshal(map[string]any{
		"appointment_id": d.AppointmentID,
		"barber_id":      d.BarberID,
		"channel":        d.Channel,
		"kind":           d.Kind,
		"error_reason":   reason,
		"failed_at":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if err := outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "notification",
		AggregateID:   d.AppointmentID,
		EventType:     outbox.EventFailed,
		Payload:       eventPayload,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func templateString(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func reminderMessage(d delivery) (subject string, body string) {
	serviceName := templateString(d.TemplateData, "service_name")
	customerName := templateString(d.TemplateData, "customer_name")
	date := templateString(d.TemplateData, "date")
	slot := templateString(d.TemplateData, "time")

	subject = "Your appointment is coming up"
	greeting := "Hi"
	if customerName != "" {
		greeting = "Hi " + customerName
	}
	what := "your appointment"
	if serviceName != "" {
		what = "your " + serviceName + " appointment"
	}
	when := ""
	if date != "" && slot != "" {
		when = fmt.Sprintf(" on %s at %s", date, slot)
	}
	body = fmt.Sprintf("%s, this is a reminder for %s%s. See you at the shop.", greeting, what, when)
	return subject, body
}

func confirmationMessage(p bookedPayload) (subject string, body string) {
	subject = "Your appointment is booked"
	greeting := "Hi"
	if p.CustomerName != "" {
		greeting = "Hi " + p.CustomerName
	}
	what := "your appointment"
	if p.ServiceName != "" {
		what = "your " + p.ServiceName + " appointment"
	}
	when := ""
	if p.Date != "" && p.Time != "" {
		when = fmt.Sprintf(" on %s at %s", p.Date, p.Time)
	}
	body = fmt.Sprintf("%s, %s%s is confirmed. Reply to this message if you need to reschedule.", greeting, what, when)
	return subject, body
}

func main() {
	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8084")
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
	notificationsRepo := storage.NewRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	smtpHost := config.String("SMTP_HOST", "mailpit")
	smtpPort := config.String("SMTP_PORT", "1025")
	smtpFrom := config.String("SMTP_FROM", "no-reply@chairtime.local")
	emailSender := email.NewSMTPSender(smtpHost, smtpPort, smtpFrom)
	emailProviderID := "smtp"

	smsProvider := strings.ToLower(config.String("SMS_PROVIDER", "noop"))
	smsWebhookURL := config.String("SMS_WEBHOOK_URL", "")
	smsWebhookToken := config.String("SMS_WEBHOOK_TOKEN", "")
	var smsSender sms.Sender
	switch smsProvider {
	case "webhook":
		smsSender = sms.NewWebhookSender(smsWebhookURL, smsWebhookToken)
	case "noop":
		smsSender = sms.NewNoopSender()
	default:
		smsSender = sms.NewWebhookSender(smsWebhookURL, smsWebhookToken)
	}

	failSuffix := config.String("NOTIFICATION_FAIL_SUFFIX", "")

	// send attempts one delivery, records it, and writes the matching
	// outbox event. Returned errors make the consumer retry the message.
	send := func(ctx context.Context, d delivery, subject, body string) error {
		status := "sent"
		failureReason := ""
		if failSuffix != "" && strings.HasSuffix(d.Recipient, failSuffix) {
			status = "failed"
			failureReason = "simulated failure"
		}

		providerID := ""
		if status == "sent" {
			switch strings.ToLower(d.Channel) {
			case "email":
				if err := emailSender.Send(d.Recipient, subject, body); err != nil {
					status = "failed"
					failureReason = err.Error()
					logger.Error("email send failed", "err", err, "recipient", d.Recipient)
				} else {
					providerID = emailProviderID
				}
			case "sms":
				if err := smsSender.Send(ctx, d.Recipient, body); err != nil {
					status = "failed"
					failureReason = err.Error()
					logger.Error("sms send failed", "err", err, "recipient", d.Recipient)
				} else {
					providerID = smsSender.ProviderID()
				}
			default:
				status = "failed"
				failureReason = "unsupported channel: " + d.Channel
				logger.Error("unsupported channel", "channel", d.Channel)
			}
		}

		if err := notificationsRepo.Insert(ctx, storage.Notification{
			AppointmentID: d.AppointmentID,
			BarberID:      d.BarberID,
			Channel:       d.Channel,
			Recipient:     d.Recipient,
			Payload:       d.TemplateData,
			Status:        status,
		}); err != nil {
			logger.Error("failed to persist notification", "err", err)
			return err
		}

		if status == "failed" {
			if err := writeOutboxFailed(ctx, pool, outboxRepo, d, failureReason); err != nil {
				logger.Error("failed to enqueue notification.failed", "err", err)
				return err
			}
		} else {
			if err := writeOutboxSent(ctx, pool, outboxRepo, d, providerID); err != nil {
				logger.Error("failed to enqueue notification.sent", "err", err)
				return err
			}
		}

		logger.Info("notification processed", "appointment_id", d.AppointmentID, "kind", d.Kind, "channel", d.Channel, "status", status)
		return nil
	}

	reminderCfg := consumer.Config{
		Brokers: config.String("KAFKA_BROKERS", ""),
		GroupID: config.String("KAFKA_GROUP_ID", "notification-service"),
		Topic:   config.String("KAFKA_REMINDER_TOPIC", "scheduler.reminder.due.v1"),
	}
	reminderConsumer := consumer.New(logger, inboxRepo, reminderCfg, func(ctx context.Context, msg kafka.Message) error {
		var payload reminderPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid reminder payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" || payload.BarberID == "" || payload.Channel == "" || payload.Recipient == "" || payload.RemindAt == "" {
			logger.Error("missing reminder fields")
			return nil
		}
		if _, err := time.Parse(time.RFC3339, payload.RemindAt); err != nil {
			logger.Error("invalid remind_at", "err", err)
			return nil
		}

		d := delivery{
			AppointmentID: payload.AppointmentID,
			BarberID:      payload.BarberID,
			Channel:       payload.Channel,
			Recipient:     payload.Recipient,
			Kind:          "reminder",
			TemplateData:  payload.TemplateData,
		}
		subject, body := reminderMessage(d)
		return send(ctx, d, subject, body)
	})
	go reminderConsumer.Run(ctx)

	bookedCfg := consumer.Config{
		Brokers: config.String("KAFKA_BROKERS", ""),
		GroupID: config.String("KAFKA_GROUP_ID", "notification-service"),
		Topic:   config.String("KAFKA_BOOKED_TOPIC", "booking.appointment.booked.v1"),
	}
	bookedConsumer := consumer.New(logger, inboxRepo, bookedCfg, func(ctx context.Context, msg kafka.Message) error {
		var payload bookedPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid booked payload", "err", err)
			return nil
		}
		if payload.AppointmentID == "" || payload.BarberID == "" {
			logger.Error("missing booked fields")
			return nil
		}
		if payload.CustomerEmail == "" && payload.CustomerPhone == "" {
			logger.Info("booked event has no reachable customer", "appointment_id", payload.AppointmentID)
			return nil
		}

		subject, body := confirmationMessage(payload)
		templateData := map[string]any{
			"service_name":  payload.ServiceName,
			"customer_name": payload.CustomerName,
			"date":          payload.Date,
			"time":          payload.Time,
		}
		if payload.CustomerEmail != "" {
			d := delivery{
				AppointmentID: payload.AppointmentID,
				BarberID:      payload.BarberID,
				Channel:       "email",
				Recipient:     payload.CustomerEmail,
				Kind:          "confirmation",
				TemplateData:  templateData,
			}
			if err := send(ctx, d, subject, body); err != nil {
				return err
			}
		}
		if payload.CustomerPhone != "" {
			d := delivery{
				AppointmentID: payload.AppointmentID,
				BarberID:      payload.BarberID,
				Channel:       "sms",
				Recipient:     payload.CustomerPhone,
				Kind:          "confirmation",
				TemplateData:  templateData,
			}
			if err := send(ctx, d, subject, body); err != nil {
				return err
			}
		}
		return nil
	})
	go bookedConsumer.Run(ctx)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "notification")
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

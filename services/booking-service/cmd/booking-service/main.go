package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nabil-hossain/chairtime/libs/config"
	"github.com/nabil-hossain/chairtime/libs/db"
	"github.com/nabil-hossain/chairtime/libs/httpx"
	"github.com/nabil-hossain/chairtime/libs/kafkax"
	otelx "github.com/nabil-hossain/chairtime/libs/otel"
	"github.com/nabil-hossain/chairtime/libs/runtime"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/catalog"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/handlers"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/outbox"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func parseReminderOffsets(raw string, logger *slog.Logger) []time.Duration {
	var offsets []time.Duration
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mins, err := strconv.Atoi(part)
		if err != nil || mins <= 0 {
			logger.Warn("invalid reminder offset", "value", part)
			continue
		}
		offsets = append(offsets, time.Duration(mins)*time.Minute)
	}
	if len(offsets) == 0 {
		offsets = []time.Duration{24 * time.Hour}
	}
	return offsets
}

func main() {
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8082")
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

	shop, err := catalog.Load()
	if err != nil {
		logger.Error("catalog config invalid", "err", err)
		panic(err)
	}
	logger.Info("catalog loaded", "barbers", len(shop.Barbers), "services", len(shop.Services),
		"open", shop.Hours.Open.String(), "close", shop.Hours.Close.String())

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

	repo := storage.NewAppointmentRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	offsets := parseReminderOffsets(config.String("REMINDER_OFFSETS_MINUTES", "1440,60"), logger)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	bookingHandler := handlers.NewBookingHandler(repo, outboxRepo, shop, logger, offsets)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("/api/v1/public/barbers", bookingHandler.Barbers)
	mux.HandleFunc("/api/v1/public/services", bookingHandler.Services)
	mux.HandleFunc("/api/v1/public/slots", bookingHandler.Slots)
	mux.HandleFunc("/api/v1/public/book", bookingHandler.Book)
	mux.HandleFunc("/api/v1/admin/agenda", bookingHandler.Agenda)
	mux.HandleFunc("/api/v1/admin/appointments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			bookingHandler.ManualCreate(w, r)
			return
		}
		bookingHandler.List(w, r)
	})
	mux.HandleFunc("/api/v1/admin/appointments/status", bookingHandler.UpdateStatus)
	mux.HandleFunc("/api/v1/admin/appointments/cancel", bookingHandler.Cancel)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
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

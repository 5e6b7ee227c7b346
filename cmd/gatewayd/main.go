package main

import (
	"context"
	"log"
	"os"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/config"
	apphttp "github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/http"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/http/middleware"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/payments"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/redsys"
	"github.com/RedNight114/TenerifeParadiseTourApp-sub008/internal/modules/reservations"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	// WithRequestID: request context'i taşıyan her log satırına request_id ekler
	logger := middleware.WithRequestID(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	signer := redsys.NewSigner(cfg.SecretKeyBase64)
	builder := redsys.Builder{
		MerchantCode:      cfg.MerchantCode,
		Terminal:          cfg.Terminal,
		MaxAmountCents:    cfg.MaxAmountCents,
		AllowInsecureURLs: cfg.AllowInsecureCallbackURLs,
	}

	var (
		store payments.Store
		src   payments.ReservationSource
	)

	if cfg.DBDSN == "" {
		// dev mode: DB yok, her şey bellekte. Restart = sıfır state.
		demo := devReservation()
		mem := payments.NewMemStore()
		store = mem
		src = devReservations{demo.ID: demo}
		logger.Warn("DB_DSN not set, using in-memory store",
			"demo_reservation_id", demo.ID)
	} else {
		db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		store = payments.NewGormStore(db)
		src = reservations.NewRepo(db)
	}

	paySvc := payments.NewService(store, src, signer, builder, cfg.GatewayURL, logger)
	whSvc := payments.NewWebhookService(store, signer, logger)

	r := apphttp.NewRouter(logger, paySvc, whSvc)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// devReservations: tek rezervasyonluk sahte kaynak, sadece DSN'siz dev mod.
type devReservations map[string]reservations.Reservation

func (d devReservations) Payable(_ context.Context, id string) (reservations.Reservation, error) {
	res, ok := d[id]
	if !ok {
		return reservations.Reservation{}, reservations.ErrNotFound
	}
	return res, nil
}

func devReservation() reservations.Reservation {
	now := time.Now()
	return reservations.Reservation{
		ID:            uuid.NewString(),
		TourName:      "Teide Sunset Tour",
		CustomerEmail: "dev@example.com",
		TourDate:      now.AddDate(0, 0, 7),
		Participants:  2,
		AmountCents:   18000,
		Currency:      "EUR",
		Status:        reservations.StatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

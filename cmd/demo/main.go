// Command demo wires the booking core together and walks through a full
// booking lifecycle against a seeded show: claim, payment, confirmation,
// cancellation and re-sale.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	"github.com/cinex/ticketing/internal/booking"
	"github.com/cinex/ticketing/internal/catalog"
	"github.com/cinex/ticketing/internal/domain"
	"github.com/cinex/ticketing/internal/ledger"
	"github.com/cinex/ticketing/internal/mailer"
	"github.com/cinex/ticketing/internal/payment"
	"github.com/cinex/ticketing/internal/pricing"
	"github.com/cinex/ticketing/internal/repository"
	"github.com/cinex/ticketing/internal/telemetry"
	"github.com/cinex/ticketing/internal/vcs"
)

var (
	version = vcs.Version()
)

type config struct {
	env     string
	holdTTL time.Duration

	redisURL string
	dbDSN    string

	stripeKey           string
	stripePaymentMethod string

	otelCollectorURL string

	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
}

func main() {
	// A .env file is optional, flags win over it.
	_ = godotenv.Load()

	var cfg config

	flag.StringVar(&cfg.env, "env", envOr("TICKETING_ENV", "dev"), "Environment (dev|staging|prod)")
	flag.DurationVar(&cfg.holdTTL, "hold-ttl", 10*time.Minute, "Seat hold timeout")
	flag.StringVar(&cfg.redisURL, "redis-url", envOr("REDIS_URL", ""), "Redis URL for the booking store (empty = in-memory)")
	flag.StringVar(&cfg.dbDSN, "db-dsn", envOr("DB_DSN", ""), "PostgreSQL DSN for the booking store (empty = in-memory)")
	flag.StringVar(&cfg.stripeKey, "stripe-key", envOr("STRIPE_KEY", ""), "Stripe secret key (empty = mock payments)")
	flag.StringVar(&cfg.stripePaymentMethod, "stripe-payment-method", "pm_card_visa", "Stripe payment method id")
	flag.StringVar(&cfg.otelCollectorURL, "otel-collector-url", envOr("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector URL")
	flag.StringVar(&cfg.smtp.host, "smtp-host", envOr("SMTP_HOST", ""), "SMTP host (empty = no emails)")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", envOr("SMTP_USERNAME", ""), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", envOr("SMTP_PASSWORD", ""), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "CineX <no-reply@cinex.example.com>", "SMTP sender")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(cfg, logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(cfg.otelCollectorURL, cfg.env, version, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}

	bookings, cleanup, err := newBookingRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var payments domain.PaymentProvider = payment.NewMockPaymentProvider()
	if cfg.stripeKey != "" {
		stripe.Key = cfg.stripeKey
		payments = payment.NewStripePaymentProvider(cfg.stripePaymentMethod)
	}

	seatLedger := ledger.New(
		ledger.WithHoldTTL(cfg.holdTTL),
		ledger.WithLogger(logger),
		ledger.WithMetrics(metrics),
	)
	go seatLedger.RunSweeper(ctx)

	shows := catalog.New()

	opts := []booking.Option{
		booking.WithLogger(logger),
		booking.WithMetrics(metrics),
	}
	if cfg.smtp.host != "" {
		opts = append(opts, booking.WithMailer(mailer.NewSMTPMailer(
			cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender,
		)))
	}

	service := booking.NewService(seatLedger, shows, pricing.DefaultPolicy(), payments, bookings, opts...)
	defer service.Wait()

	if err := seed(shows, seatLedger); err != nil {
		return err
	}

	return runScenario(ctx, service, shows, seatLedger, logger)
}

func newBookingRepository(ctx context.Context, cfg config) (domain.BookingRepository, func(), error) {
	switch {
	case cfg.dbDSN != "":
		pool, err := newDatabasePool(ctx, cfg.dbDSN)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresBookingRepository(pool), pool.Close, nil

	case cfg.redisURL != "":
		client, err := newRedisClient(ctx, cfg.redisURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisBookingRepository(client), func() { _ = client.Close() }, nil

	default:
		return repository.NewMemoryBookingRepository(), func() {}, nil
	}
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: url})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func seed(shows *catalog.Catalog, seatLedger *ledger.Ledger) error {
	if err := shows.AddMovie(domain.Movie{
		ID:       "M1",
		Title:    "Inception",
		Duration: 150 * time.Minute,
		Genre:    "Sci-Fi",
		ShowIDs:  []domain.ShowID{"SH1"},
	}); err != nil {
		return err
	}

	if err := shows.AddTheater(domain.Theater{
		ID:   "T1",
		Name: "Gotham Grand",
		Address: domain.Address{
			AddressLine: "123 Main St",
			City:        "Gotham",
			State:       "NY",
			Pin:         "12345",
		},
		ShowIDs: []domain.ShowID{"SH1"},
	}); err != nil {
		return err
	}

	for _, customer := range []domain.Customer{
		{ID: "C1", Name: "Alice", ContactNo: "555-0100"},
		{ID: "C2", Name: "Bob", ContactNo: "555-0101"},
	} {
		if err := shows.AddCustomer(customer); err != nil {
			return err
		}
	}

	start := time.Now().Add(2 * time.Hour)

	show, err := domain.NewShow("SH1", "M1", start, start.Add(150*time.Minute), []domain.Seat{
		{ID: "S1", Row: 1, Col: 1, Category: domain.SeatCategoryGold},
		{ID: "S2", Row: 1, Col: 2, Category: domain.SeatCategoryPremium},
	})
	if err != nil {
		return err
	}

	if err := shows.AddShow(show); err != nil {
		return err
	}

	return seatLedger.RegisterShow(show)
}

func runScenario(ctx context.Context, service *booking.Service, shows *catalog.Catalog, seatLedger *ledger.Ledger, logger *slog.Logger) error {
	basePrice := decimal.NewFromInt(200)

	alice, err := shows.GetCustomer("C1")
	if err != nil {
		return err
	}

	confirmed, err := service.Book(ctx, booking.BookRequest{
		CustomerID: alice.ID,
		ShowID:     "SH1",
		SeatIDs:    []domain.SeatID{"S1"},
		BasePrice:  basePrice,
	})
	if err != nil {
		return err
	}

	logger.Info("booking confirmed",
		"booking_id", confirmed.ID,
		"seats", confirmed.SeatIDs,
		"total_price", confirmed.TotalPrice.StringFixed(2),
	)

	snapshot, err := seatLedger.Snapshot("SH1")
	if err != nil {
		return err
	}
	logger.Info("seat map after booking", "seats", fmt.Sprint(snapshot))

	if err := service.Cancel(ctx, alice.ID, confirmed.ID); err != nil {
		return err
	}
	logger.Info("booking cancelled", "booking_id", confirmed.ID)

	bob, err := shows.GetCustomer("C2")
	if err != nil {
		return err
	}

	rebooked, err := service.Book(ctx, booking.BookRequest{
		CustomerID: bob.ID,
		ShowID:     "SH1",
		SeatIDs:    []domain.SeatID{"S1", "S2"},
		BasePrice:  basePrice,
	})
	if err != nil {
		return err
	}

	logger.Info("seat resold after cancellation",
		"booking_id", rebooked.ID,
		"seats", rebooked.SeatIDs,
		"total_price", rebooked.TotalPrice.StringFixed(2),
	)

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelis/cargohold/api"
	"github.com/avelis/cargohold/config"
	"github.com/avelis/cargohold/internal/bootstrap"
	"github.com/avelis/cargohold/internal/cache"
	"github.com/avelis/cargohold/internal/feeds"
	"github.com/avelis/cargohold/internal/kafka"
	"github.com/avelis/cargohold/internal/match"
	"github.com/avelis/cargohold/internal/rates"
	"github.com/avelis/cargohold/internal/repository"
	"github.com/avelis/cargohold/internal/service/booking"
	"github.com/avelis/cargohold/internal/service/flights"
	"github.com/avelis/cargohold/internal/service/search"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	calc := rates.NewCalculator(rates.RateCard(cfg.Rates.RateCard), cfg.Rates.DefaultRatePerKg)

	flightService := flights.NewFlightService(flightRepo, bookingRepo)
	searchService := search.NewSearchService(
		flightRepo,
		redisCache,
		calc,
		cfg.Search.DirectTransitHours,
		cfg.Search.ConnectionTransitHours,
		match.Policy(cfg.Search.InterlinePolicy),
	)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		calc,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.HoldTTLSeconds)*time.Second,
		time.Duration(cfg.Booking.PenaltyWindowSeconds)*time.Second,
		booking.WithPenaltyRates(cfg.Booking.CancelPenaltyRate, cfg.Booking.ModifyFeeRate),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	var importer *feeds.Importer
	if len(cfg.Feeds.Sources) > 0 {
		importer = feeds.NewImporter(flightService, cfg.Feeds.Sources, time.Duration(cfg.Feeds.TimeoutSeconds)*time.Second)
	}

	handlers := bootstrap.Handlers{
		Flights:  api.NewFlightHandler(flightService, importer),
		Search:   api.NewSearchHandler(searchService),
		Bookings: api.NewBookingHandler(bookingService),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

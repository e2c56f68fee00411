package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelis/cargohold/config"
	"github.com/avelis/cargohold/internal/cache"
	"github.com/avelis/cargohold/internal/email"
	"github.com/avelis/cargohold/internal/kafka"
	"github.com/avelis/cargohold/internal/rates"
	"github.com/avelis/cargohold/internal/repository"
	"github.com/avelis/cargohold/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

// The worker is the periodic counterpart of the lazy expiry sweep: it
// bounds how stale remaining capacity can get when nobody lists bookings,
// and it turns booking events into notifications.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.FlightsCacheTTLSeconds)*time.Second)

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	calc := rates.NewCalculator(rates.RateCard(cfg.Rates.RateCard), cfg.Rates.DefaultRatePerKg)
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepSeconds) * time.Second)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			expired, err := bookingService.SweepExpired(ctx)
			if err != nil {
				log.Printf("sweep expired holds error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d holds", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}

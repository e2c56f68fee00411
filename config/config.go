package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Search   SearchConfig   `yaml:"search"`
	Rates    RatesConfig    `yaml:"rates"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	HoldTTLSeconds       int     `yaml:"hold_ttl_seconds"`
	PenaltyWindowSeconds int     `yaml:"penalty_window_seconds"`
	CancelPenaltyRate    float64 `yaml:"cancel_penalty_rate"`
	ModifyFeeRate        float64 `yaml:"modify_fee_rate"`
}

type SearchConfig struct {
	// Placeholder transit times, kept configurable because the real
	// schedule data carries no arrival times.
	DirectTransitHours     int    `yaml:"direct_transit_hours"`
	ConnectionTransitHours int    `yaml:"connection_transit_hours"`
	InterlinePolicy        string `yaml:"interline_policy"` // strict or loose
	FlightsCacheTTLSeconds int    `yaml:"flights_cache_ttl_seconds"`
}

type RatesConfig struct {
	DefaultRatePerKg float64            `yaml:"default_rate_per_kg"`
	RateCard         map[string]float64 `yaml:"rate_card"`
}

type FeedsConfig struct {
	Sources        []string `yaml:"sources"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type WorkerConfig struct {
	ExpirationSweepSeconds int `yaml:"expiration_sweep_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

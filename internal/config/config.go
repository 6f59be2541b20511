package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	BusDriverRedis = "redis"
	BusDriverKafka = "kafka"
)

type Common struct {
	HTTPAddr     string `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type Storage struct {
	Driver      string `env:"STORAGE_DRIVER" env-default:"postgres"`
	PostgresURL string `env:"POSTGRES_URL"`
}

type Bus struct {
	Driver       string   `env:"EVENT_BUS_DRIVER" env-default:"redis"`
	RedisAddr    string   `env:"REDIS_ADDR" env-default:"localhost:6379"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	// Partitions is the number of Redis streams booking records are spread over.
	// Kafka partitions by key on its own and ignores it.
	Partitions int `env:"BOOKING_PARTITIONS" env-default:"4"`
}

type Booking struct {
	Common
	Storage
	Bus
	InventoryURL         string        `env:"INVENTORY_URL" env-default:"http://localhost:8081"`
	InventoryReadTimeout time.Duration `env:"INVENTORY_READ_TIMEOUT" env-default:"2s"`
}

type Order struct {
	Common
	Storage
	Bus
	InventoryURL              string        `env:"INVENTORY_URL" env-default:"http://localhost:8081"`
	InventoryDecrementTimeout time.Duration `env:"INVENTORY_DECREMENT_TIMEOUT" env-default:"5s"`
}

type Inventory struct {
	Common
	Storage
}

func LoadBooking() (Booking, error) {
	var cfg Booking
	if err := load(&cfg); err != nil {
		return Booking{}, err
	}

	if cfg.InventoryReadTimeout <= 0 {
		return Booking{}, errors.New("INVENTORY_READ_TIMEOUT must be positive")
	}

	return cfg, errors.Join(cfg.Storage.validate(), cfg.Bus.validate())
}

func LoadOrder() (Order, error) {
	var cfg Order
	if err := load(&cfg); err != nil {
		return Order{}, err
	}

	if cfg.InventoryDecrementTimeout <= 0 {
		return Order{}, errors.New("INVENTORY_DECREMENT_TIMEOUT must be positive")
	}

	return cfg, errors.Join(cfg.Storage.validate(), cfg.Bus.validate())
}

func LoadInventory() (Inventory, error) {
	var cfg Inventory
	if err := load(&cfg); err != nil {
		return Inventory{}, err
	}

	return cfg, cfg.Storage.validate()
}

// load reads an optional .env file and then the process environment.
func load(cfg any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	return nil
}

func (s Storage) validate() error {
	switch s.Driver {
	case StorageDriverMemory:
		return nil
	case StorageDriverPostgres:
		if s.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required for the postgres storage driver")
		}
		return nil
	}

	return fmt.Errorf("unknown STORAGE_DRIVER %q", s.Driver)
}

func (b Bus) validate() error {
	if b.Partitions < 1 {
		return fmt.Errorf("BOOKING_PARTITIONS must be at least 1, got %d", b.Partitions)
	}

	switch b.Driver {
	case BusDriverRedis, BusDriverKafka:
		return nil
	}

	return fmt.Errorf("unknown EVENT_BUS_DRIVER %q", b.Driver)
}

// BookingPartitions is the number of topics booking records are spread over.
func (b Bus) BookingPartitions() int {
	if b.Driver == BusDriverKafka {
		return 1
	}
	return b.Partitions
}

type PoisonQueue struct {
	Bus
}

func LoadPoisonQueue() (PoisonQueue, error) {
	var cfg PoisonQueue
	if err := load(&cfg); err != nil {
		return PoisonQueue{}, err
	}

	return cfg, cfg.Bus.validate()
}

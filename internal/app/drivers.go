package app

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"ticketing/internal/application/usecases/inventory"
	"ticketing/internal/config"
	"ticketing/internal/infrastructure/event_publisher"
	ticketinghttp "ticketing/internal/interfaces/http"
	"ticketing/internal/interfaces/message/events"
	"ticketing/internal/repository"
	"ticketing/internal/repository/memory"
)

func noopClose() error { return nil }

func openPostgres(url string, initSchema func(db *sqlx.DB) error) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func NewCustomersStorage(cfg config.Storage) (ticketinghttp.CustomersService, func() error, error) {
	if cfg.Driver == config.StorageDriverMemory {
		return memory.NewCustomersRepo(), noopClose, nil
	}

	db, err := openPostgres(cfg.PostgresURL, repository.InitializeBookingSchema)
	if err != nil {
		return nil, nil, err
	}

	return repository.NewCustomersRepo(db), db.Close, nil
}

func NewInventoryStorage(cfg config.Storage) (inventory.Repository, func() error, error) {
	if cfg.Driver == config.StorageDriverMemory {
		return memory.NewInventoryRepo(), noopClose, nil
	}

	db, err := openPostgres(cfg.PostgresURL, repository.InitializeInventorySchema)
	if err != nil {
		return nil, nil, err
	}

	trManager := manager.Must(trmsqlx.NewDefaultFactory(db))

	return repository.NewInventoryRepo(db, trmsqlx.DefaultCtxGetter, trManager), db.Close, nil
}

func NewOrdersStorage(cfg config.Storage) (OrdersRepo, func() error, error) {
	if cfg.Driver == config.StorageDriverMemory {
		return memory.NewOrdersRepo(), noopClose, nil
	}

	db, err := openPostgres(cfg.PostgresURL, repository.InitializeOrderSchema)
	if err != nil {
		return nil, nil, err
	}

	return repository.NewOrdersRepo(db), db.Close, nil
}

// NewBusPublisher returns the publisher of the configured event bus driver.
func NewBusPublisher(cfg config.Bus, logger watermill.LoggerAdapter) (message.Publisher, func() error, error) {
	switch cfg.Driver {
	case config.BusDriverKafka:
		pub, err := event_publisher.NewKafkaPublisher(logger, cfg.KafkaBrokers, events.PartitionKeyMetadata)
		if err != nil {
			return nil, nil, err
		}
		return pub, pub.Close, nil
	case config.BusDriverRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pub, err := event_publisher.NewRedisPublisher(logger, rdb)
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return pub, rdb.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown event bus driver %q", cfg.Driver)
}

// NewBusSubscriberConstructor returns a constructor of subscribers for the configured
// event bus driver.
func NewBusSubscriberConstructor(
	cfg config.Bus,
	logger watermill.LoggerAdapter,
) (events.SubscriberConstructor, func() error, error) {
	switch cfg.Driver {
	case config.BusDriverKafka:
		return func(consumerGroup string) (message.Subscriber, error) {
			return event_publisher.NewKafkaSubscriber(logger, cfg.KafkaBrokers, events.PartitionKeyMetadata, consumerGroup)
		}, noopClose, nil
	case config.BusDriverRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return func(consumerGroup string) (message.Subscriber, error) {
			return event_publisher.NewRedisSubscriber(logger, rdb, consumerGroup)
		}, rdb.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown event bus driver %q", cfg.Driver)
}

package repository_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ticketing/internal/repository"
)

var db *sqlx.DB

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

// run uses POSTGRES_URL when set and a throwaway container otherwise. Without either
// the repository tests are skipped.
func run(m *testing.M) int {
	ctx := context.Background()

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		container, err := startPostgres(ctx)
		if err != nil {
			log.Printf("postgres is not available, repository tests will be skipped: %v", err)
			return m.Run()
		}
		defer func() {
			if err := container.Terminate(ctx); err != nil {
				log.Printf("failed to terminate postgres container: %v", err)
			}
		}()

		url, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			log.Printf("failed to get connection string: %v", err)
			return 1
		}
	}

	var err error
	db, err = sqlx.Connect("postgres", url)
	if err != nil {
		log.Printf("failed to connect to postgres: %v", err)
		return 1
	}
	defer db.Close()

	for _, initSchema := range []func(*sqlx.DB) error{
		repository.InitializeBookingSchema,
		repository.InitializeInventorySchema,
		repository.InitializeOrderSchema,
	} {
		if err := initSchema(db); err != nil {
			log.Printf("failed to initialize schema: %v", err)
			return 1
		}
	}

	return m.Run()
}

func startPostgres(ctx context.Context) (container *postgres.PostgresContainer, err error) {
	// the docker provider panics when no docker host can be found
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("docker is not available: %v", r)
		}
	}()

	return postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ticketing"),
		postgres.WithUsername("ticketing"),
		postgres.WithPassword("ticketing"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
}

func getDB(t *testing.T) *sqlx.DB {
	t.Helper()

	if db == nil {
		t.Skip("postgres is not available")
	}
	return db
}

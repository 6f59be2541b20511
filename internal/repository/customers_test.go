package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "ticketing/internal/domain/customers"
	"ticketing/internal/repository"
)

func TestCustomersRepo_Integration(t *testing.T) {
	repo := repository.NewCustomersRepo(getDB(t))
	ctx := context.Background()

	customer := domain.Customer{
		ID:      time.Now().UnixNano(),
		Name:    "Ann",
		Email:   "ann@example.com",
		Address: "1 Main St",
	}

	require.NoError(t, repo.CreateCustomer(ctx, customer))

	// existing customers are not overwritten
	changed := customer
	changed.Name = "Someone else"
	require.NoError(t, repo.CreateCustomer(ctx, changed))

	got, err := repo.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer, got)

	_, err = repo.GetCustomer(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

// Package memory holds in-process implementations of the repositories, used for local
// runs with STORAGE_DRIVER=memory and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	domain "ticketing/internal/domain/customers"
)

type CustomersRepo struct {
	mu        sync.RWMutex
	customers map[int64]domain.Customer
}

func NewCustomersRepo(customers ...domain.Customer) *CustomersRepo {
	r := &CustomersRepo{customers: make(map[int64]domain.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *CustomersRepo) GetCustomer(_ context.Context, id int64) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %d: %w", id, domain.ErrCustomerNotFound)
	}

	return customer, nil
}

func (r *CustomersRepo) CreateCustomer(_ context.Context, customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customer.ID]; !ok {
		r.customers[customer.ID] = customer
	}

	return nil
}

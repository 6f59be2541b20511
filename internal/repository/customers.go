package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/jmoiron/sqlx"
	domain "ticketing/internal/domain/customers"
)

type CustomersRepo struct {
	db *sqlx.DB
}

func NewCustomersRepo(db *sqlx.DB) *CustomersRepo {
	return &CustomersRepo{db: db}
}

func (r *CustomersRepo) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	var customer domain.Customer

	err := r.db.GetContext(ctx, &customer, `
		SELECT id, name, email, address
		FROM customers
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("customer %d: %w", id, domain.ErrCustomerNotFound)
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// CreateCustomer provisions a customer; existing ids are left untouched.
func (r *CustomersRepo) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO customers (id, name, email, address)
		VALUES (:id, :name, :email, :address)
		ON CONFLICT DO NOTHING`, customer)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "ticketing/internal/domain/customers"
)

type CustomersService interface {
	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) error
}

type CreateCustomerRequest struct {
	ID      int64  `json:"customer_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address"`
}

// CreateCustomerHandler provisions a customer. Existing ids are left untouched.
func (s *Server) CreateCustomerHandler(c echo.Context) error {
	var request CreateCustomerRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	customer := domain.Customer{
		ID:      request.ID,
		Name:    request.Name,
		Email:   request.Email,
		Address: request.Address,
	}
	if err := s.customers.CreateCustomer(c.Request().Context(), customer); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, customer)
}

func (s *Server) GetCustomerHandler(c echo.Context) error {
	customerID, err := pathID(c, "customer_id")
	if err != nil {
		return err
	}

	customer, err := s.customers.GetCustomer(c.Request().Context(), customerID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, customer)
}

package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	bdomain "ticketing/internal/domain/bookings"
	cdomain "ticketing/internal/domain/customers"
	idomain "ticketing/internal/domain/inventory"
	odomain "ticketing/internal/domain/orders"
)

// mapError turns domain errors into HTTP errors. Unknown errors are returned as is
// and end up as 500.
func mapError(err error) error {
	switch {
	case errors.Is(err, cdomain.ErrCustomerNotFound),
		errors.Is(err, idomain.ErrEventNotFound),
		errors.Is(err, idomain.ErrVenueNotFound),
		errors.Is(err, odomain.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, bdomain.ErrInvalidTicketCount),
		errors.Is(err, idomain.ErrInvalidCount):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, bdomain.ErrInsufficientInventory):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, bdomain.ErrInventoryCheckFailed),
		errors.Is(err, idomain.ErrTransientStoreFailure):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}

	return err
}

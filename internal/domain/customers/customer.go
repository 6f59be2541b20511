package customers

import "errors"

var ErrCustomerNotFound = errors.New("customer not found")

type Customer struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Address string `db:"address" json:"address"`
}

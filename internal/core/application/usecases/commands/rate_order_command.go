package commands

import (
	"errors"

	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/pkg/errs"
	"ordertracking/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand sets the customer rating of a delivered order.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID string
	rating  int

	guard guard.ConstructorGuard
}

func NewRateOrderCommand(orderID string, rating int) (RateOrderCommand, error) {
	cmd := RateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRating(rating),
	); err != nil {
		return RateOrderCommand{}, err
	}

	return cmd, nil
}

func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

func (c RateOrderCommand) OrderID() string {
	return c.orderID
}

func (c RateOrderCommand) Rating() int {
	return c.rating
}

func (c *RateOrderCommand) setOrderID(id string) error {
	if err := order.ValidateID(id); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *RateOrderCommand) setRating(rating int) error {
	if rating < order.MinRating || rating > order.MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, order.MinRating, order.MaxRating)
	}
	c.rating = rating
	return nil
}

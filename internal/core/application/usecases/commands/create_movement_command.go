package commands

import (
	"errors"
	"strings"

	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/pkg/errs"
	"ordertracking/internal/pkg/guard"
)

var ErrCreateMovementCommandIsNotConstructed = errors.New(
	"CreateMovementCommand must be created via NewCreateMovementCommand constructor",
)

// CreateMovementCommand is an operator's request to move an order from one
// state to another, authenticated by the operator's credential code.
//
// Example:
//
//	cmd, err := NewCreateMovementCommand("4821", "00287573", lifecycle.InPreparation, lifecycle.Prepared)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateMovementCommand struct { //nolint:recvcheck //using for validation
	credentialCode string
	orderID        string
	from           lifecycle.State
	to             lifecycle.State

	guard guard.ConstructorGuard
}

// NewCreateMovementCommand accepts either the canonical 8-digit order id or
// the full ERP manifest ("0001-00287573").
func NewCreateMovementCommand(credentialCode, orderID string, from, to lifecycle.State) (CreateMovementCommand, error) {
	cmd := CreateMovementCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCredentialCode(credentialCode),
		cmd.setOrderID(orderID),
		cmd.setStates(from, to),
	); err != nil {
		return CreateMovementCommand{}, err
	}

	return cmd, nil
}

func (c CreateMovementCommand) Validate() error {
	return c.guard.Validate(ErrCreateMovementCommandIsNotConstructed)
}

func (c CreateMovementCommand) CredentialCode() string {
	return c.credentialCode
}

func (c CreateMovementCommand) OrderID() string {
	return c.orderID
}

func (c CreateMovementCommand) From() lifecycle.State {
	return c.from
}

func (c CreateMovementCommand) To() lifecycle.State {
	return c.to
}

func (c *CreateMovementCommand) setCredentialCode(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("credential code")
	}
	c.credentialCode = trimmed
	return nil
}

func (c *CreateMovementCommand) setOrderID(raw string) error {
	id, err := order.ParseReference(raw)
	if err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateMovementCommand) setStates(from, to lifecycle.State) error {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return err
	}
	if from == to {
		return errs.NewValueIsInvalidError("to")
	}
	c.from = from
	c.to = to
	return nil
}

package commands

import (
	"context"
	"errors"
	"time"

	"ordertracking/internal/core/domain/model/carrier"
	"ordertracking/internal/core/domain/model/kernel"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/operator"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/core/domain/services"
	"ordertracking/internal/core/ports"
	"ordertracking/internal/pkg/errs"
)

type OrderSummary struct {
	ID      string
	Settled bool
}

type CarrierSummary struct {
	ID   int64
	Name string
}

type OperatorSummary struct {
	ID   int64
	Name string
	Role operator.Role
}

// CreatedMovement is the movement recorded by CreateMovementCommandHandler
// together with the entities it refers to.
type CreatedMovement struct {
	ID         kernel.UUID
	Sequence   int
	From       lifecycle.State
	To         lifecycle.State
	OccurredAt time.Time

	Order    OrderSummary
	Carrier  CarrierSummary
	Operator OperatorSummary
}

// CreateMovementCommandHandler records operator movements.
//
// Checks run in this order, the first failure wins:
//  1. the credential code identifies an active operator
//  2. the operator's role may perform the transition
//  3. the order exists and the declared from is its current state
//  4. a preparation operator finishes only a preparation they started
//  5. SETTLEMENT is entered by hand only for manually settled carriers
//  6. the prerequisite rules of the target are satisfied
type CreateMovementCommandHandler struct {
	uowFactory UoWFactory
	validator  services.TransitionValidator
	policy     services.MovementPolicy
	now        func() time.Time
}

func NewCreateMovementCommandHandler(
	uowFactory UoWFactory,
	validator services.TransitionValidator,
	policy services.MovementPolicy,
) CreateMovementCommandHandler {
	return CreateMovementCommandHandler{
		uowFactory: uowFactory,
		validator:  validator,
		policy:     policy,
		now:        time.Now,
	}
}

func (h *CreateMovementCommandHandler) Handle(ctx context.Context, cmd CreateMovementCommand) (CreatedMovement, error) {
	if err := cmd.Validate(); err != nil {
		return CreatedMovement{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreatedMovement{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	operatorRepo := uow.OperatorRepository()
	orderRepo := uow.OrderRepository()

	op, err := h.authenticate(ctx, operatorRepo, cmd.CredentialCode())
	if err != nil {
		return CreatedMovement{}, err
	}

	if err = h.policy.Authorize(op, cmd.From(), cmd.To()); err != nil {
		return CreatedMovement{}, err
	}

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return CreatedMovement{}, err
	}

	if err = o.CheckMove(cmd.From(), cmd.To()); err != nil {
		return CreatedMovement{}, err
	}

	if err = h.checkContinuity(ctx, operatorRepo, op, o, cmd.To()); err != nil {
		return CreatedMovement{}, err
	}

	c, err := uow.CarrierRepository().Get(ctx, o.CarrierID())
	if err != nil {
		return CreatedMovement{}, err
	}

	if err = h.policy.AuthorizeSettlement(op, c, cmd.To()); err != nil {
		return CreatedMovement{}, err
	}

	rules, err := uow.RuleRepository().GetByTarget(ctx, cmd.To())
	if err != nil {
		return CreatedMovement{}, err
	}

	if err = h.validator.Validate(o, cmd.From(), cmd.To(), rules); err != nil {
		return CreatedMovement{}, err
	}

	m, err := o.Record(cmd.From(), cmd.To(), op.ID(), h.now())
	if err != nil {
		return CreatedMovement{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return CreatedMovement{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreatedMovement{}, err
	}

	return newCreatedMovement(m, o, c, op), nil
}

// authenticate scans active operators in ascending id order and returns the
// first whose credential matches.
func (h *CreateMovementCommandHandler) authenticate(
	ctx context.Context,
	repo ports.OperatorRepository,
	code string,
) (*operator.Operator, error) {
	candidates, err := repo.ListActiveByRoles(ctx, operator.MovementRoles()...)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if !candidate.MatchesCredential(code) {
			continue
		}
		if !candidate.IsActive() {
			return nil, errs.NewInvalidCredentialErrorWithCause(errors.New("operator is inactive"))
		}
		return candidate, nil
	}

	return nil, errs.NewInvalidCredentialError()
}

func (h *CreateMovementCommandHandler) checkContinuity(
	ctx context.Context,
	repo ports.OperatorRepository,
	op *operator.Operator,
	o *order.Order,
	to lifecycle.State,
) error {
	previousID := h.policy.PreviousPreparer(op, o, to)
	if previousID == 0 {
		return nil
	}

	previous, err := repo.Get(ctx, previousID)
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return err
		}
		previous = nil
	}

	return h.policy.CheckContinuity(op, previous)
}

func newCreatedMovement(m *order.Movement, o *order.Order, c *carrier.Carrier, op *operator.Operator) CreatedMovement {
	return CreatedMovement{
		ID:         m.ID(),
		Sequence:   m.Sequence(),
		From:       m.From(),
		To:         m.To(),
		OccurredAt: m.OccurredAt(),
		Order: OrderSummary{
			ID:      o.ID(),
			Settled: o.IsSettled(),
		},
		Carrier: CarrierSummary{
			ID:   c.ID(),
			Name: c.Name(),
		},
		Operator: OperatorSummary{
			ID:   op.ID(),
			Name: op.Name(),
			Role: op.Role(),
		},
	}
}

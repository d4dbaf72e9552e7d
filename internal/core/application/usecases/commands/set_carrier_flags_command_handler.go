package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ordertracking/internal/core/domain/model/carrier"
	"ordertracking/internal/core/domain/model/lifecycle"
)

// CarrierFlagsResult reports the carrier after the change and the side effects
// it triggered.
type CarrierFlagsResult struct {
	Carrier          *carrier.Carrier
	DeletedOrders    int64
	DeletedMovements int64
	SettledOrders    int
}

// SetCarrierFlagsCommandHandler applies carrier flag changes and their cascades
// in one transaction:
//   - tracking true -> false deletes every order and movement of the carrier
//   - manualSettlement true -> false settles every unsettled order of the
//     carrier on behalf of the system operator
type SetCarrierFlagsCommandHandler struct {
	uowFactory       UoWFactory
	systemOperatorID int64
	logger           *slog.Logger
	now              func() time.Time
}

func NewSetCarrierFlagsCommandHandler(
	uowFactory UoWFactory,
	systemOperatorID int64,
	logger *slog.Logger,
) SetCarrierFlagsCommandHandler {
	return SetCarrierFlagsCommandHandler{
		uowFactory:       uowFactory,
		systemOperatorID: systemOperatorID,
		logger:           logger.With("component", "carrier_flags"),
		now:              time.Now,
	}
}

func (h *SetCarrierFlagsCommandHandler) Handle(ctx context.Context, cmd SetCarrierFlagsCommand) (CarrierFlagsResult, error) {
	if err := cmd.Validate(); err != nil {
		return CarrierFlagsResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CarrierFlagsResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	carrierRepo := uow.CarrierRepository()
	orderRepo := uow.OrderRepository()

	c, err := carrierRepo.Get(ctx, cmd.CarrierID())
	if err != nil {
		return CarrierFlagsResult{}, err
	}

	var stopped, disabled bool
	if tracking, ok := cmd.Tracking(); ok {
		stopped = c.SetTracking(tracking)
	}
	if manual, ok := cmd.ManualSettlement(); ok {
		disabled = c.SetManualSettlement(manual)
	}

	if err = carrierRepo.Update(ctx, c); err != nil {
		return CarrierFlagsResult{}, err
	}

	result := CarrierFlagsResult{Carrier: c}

	if stopped {
		result.DeletedOrders, result.DeletedMovements, err = orderRepo.DeleteByCarrier(ctx, c.ID())
		if err != nil {
			return CarrierFlagsResult{}, err
		}
		h.logger.Warn("carrier no longer tracked, orders deleted",
			"carrier_id", c.ID(),
			"carrier", c.Name(),
			"orders", result.DeletedOrders,
			"movements", result.DeletedMovements,
		)
	} else if disabled {
		if result.SettledOrders, err = h.settleAll(ctx, uow, c); err != nil {
			return CarrierFlagsResult{}, err
		}
		h.logger.Info("manual settlement disabled, orders settled",
			"carrier_id", c.ID(),
			"carrier", c.Name(),
			"orders", result.SettledOrders,
		)
	}

	if err = uow.Commit(ctx); err != nil {
		return CarrierFlagsResult{}, err
	}

	return result, nil
}

// settleAll appends <last state> -> SETTLEMENT to every unsettled order of c.
// Orders without history cannot be settled and fail the whole change.
func (h *SetCarrierFlagsCommandHandler) settleAll(ctx context.Context, uow UoW, c *carrier.Carrier) (int, error) {
	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.ListUnsettledByCarrier(ctx, c.ID())
	if err != nil {
		return 0, err
	}

	at := h.now()
	for _, o := range orders {
		last := o.LastState()
		if last == lifecycle.Unknown {
			return 0, fmt.Errorf("settle order %s: order has no history", o.ID())
		}
		if _, err = o.Record(last, lifecycle.Settlement, h.systemOperatorID, at); err != nil {
			return 0, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return 0, err
		}
	}
	return len(orders), nil
}

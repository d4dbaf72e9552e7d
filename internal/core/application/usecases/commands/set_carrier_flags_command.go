package commands

import (
	"errors"
	"fmt"

	"ordertracking/internal/pkg/errs"
	"ordertracking/internal/pkg/guard"
)

var ErrSetCarrierFlagsCommandIsNotConstructed = errors.New(
	"SetCarrierFlagsCommand must be created via NewSetCarrierFlagsCommand constructor",
)

// SetCarrierFlagsCommand changes the tracking and manual settlement flags of a
// carrier. A nil flag is left unchanged; at least one must be set.
type SetCarrierFlagsCommand struct { //nolint:recvcheck //using for validation
	carrierID        int64
	tracking         *bool
	manualSettlement *bool

	guard guard.ConstructorGuard
}

func NewSetCarrierFlagsCommand(carrierID int64, tracking, manualSettlement *bool) (SetCarrierFlagsCommand, error) {
	if carrierID <= 0 {
		return SetCarrierFlagsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"carrier id", fmt.Errorf("%d is not greater than 0", carrierID))
	}
	if tracking == nil && manualSettlement == nil {
		return SetCarrierFlagsCommand{}, errs.NewValueIsRequiredError("tracking or manualSettlement")
	}

	return SetCarrierFlagsCommand{
		carrierID:        carrierID,
		tracking:         tracking,
		manualSettlement: manualSettlement,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c SetCarrierFlagsCommand) Validate() error {
	return c.guard.Validate(ErrSetCarrierFlagsCommandIsNotConstructed)
}

func (c SetCarrierFlagsCommand) CarrierID() int64 {
	return c.carrierID
}

// Tracking returns the requested value and whether it was given.
func (c SetCarrierFlagsCommand) Tracking() (bool, bool) {
	if c.tracking == nil {
		return false, false
	}
	return *c.tracking, true
}

// ManualSettlement returns the requested value and whether it was given.
func (c SetCarrierFlagsCommand) ManualSettlement() (bool, bool) {
	if c.manualSettlement == nil {
		return false, false
	}
	return *c.manualSettlement, true
}

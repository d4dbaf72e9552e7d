package carrier

import (
	"errors"
	"fmt"
	"strings"

	"ordertracking/internal/pkg/errs"
)

var ErrCarrierIsNotConstructed = errors.New("Carrier must be created via NewCarrier constructor")

// Carrier is a delivery partner known to the ERP. Its flags decide whether the
// carrier's orders are tracked at all and how their settlement is entered.
//
// A carrier first seen in the ERP feed is neither tracked nor manually settled.
type Carrier struct {
	id               int64
	name             string
	tracking         bool
	manualSettlement bool

	isConstructed bool
}

// NewCarrier creates a carrier seen for the first time.
func NewCarrier(id int64, name string) (*Carrier, error) {
	c := &Carrier{isConstructed: true}
	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}
	return c, nil
}

// RestoreCarrier rebuilds a persisted carrier.
func RestoreCarrier(id int64, name string, tracking, manualSettlement bool) (*Carrier, error) {
	c, err := NewCarrier(id, name)
	if err != nil {
		return nil, err
	}
	c.tracking = tracking
	c.manualSettlement = manualSettlement
	return c, nil
}

func (c *Carrier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCarrierIsNotConstructed
	}
	return nil
}

func (c *Carrier) ID() int64 {
	return c.id
}

func (c *Carrier) Name() string {
	return c.name
}

func (c *Carrier) IsTracking() bool {
	return c.tracking
}

func (c *Carrier) HasManualSettlement() bool {
	return c.manualSettlement
}

// Rename updates the display name and reports whether it changed.
// Names are compared after trimming whitespace.
func (c *Carrier) Rename(name string) (bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == c.name {
		return false, nil
	}
	if err := c.setName(trimmed); err != nil {
		return false, err
	}
	return true, nil
}

// SetTracking changes the tracking flag. The result is true when tracking was
// switched off, in which case every order of the carrier must be removed.
func (c *Carrier) SetTracking(tracking bool) (stopped bool) {
	stopped = c.tracking && !tracking
	c.tracking = tracking
	return stopped
}

// SetManualSettlement changes the settlement mode. The result is true when manual
// settlement was switched off, in which case unsettled orders are settled
// automatically.
func (c *Carrier) SetManualSettlement(manual bool) (disabled bool) {
	disabled = c.manualSettlement && !manual
	c.manualSettlement = manual
	return disabled
}

func (c *Carrier) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("carrier id", fmt.Errorf("%d is not greater than 0", id))
	}
	c.id = id
	return nil
}

func (c *Carrier) setName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("carrier name")
	}
	c.name = trimmed
	return nil
}

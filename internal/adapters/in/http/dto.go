package http

import (
	"time"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/application/usecases/queries"
	"ordertracking/internal/core/domain/model/carrier"
	"ordertracking/internal/core/domain/model/lifecycle"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type State struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newState(s lifecycle.State) *State {
	if s == lifecycle.Unknown {
		return nil
	}
	return &State{ID: s.ID(), Name: s.String()}
}

type NewMovement struct {
	Code        string `json:"code"`
	OrderID     string `json:"orderId"`
	FromStateID int    `json:"fromStateId"`
	ToStateID   int    `json:"toStateId"`
}

type Movement struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"sequence"`
	From       *State    `json:"from"`
	To         *State    `json:"to"`
	OccurredAt time.Time `json:"occurredAt"`
	Order      struct {
		ID      string `json:"id"`
		Settled bool   `json:"settled"`
	} `json:"order"`
	Carrier struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"carrier"`
	Operator struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"operator"`
}

func newMovement(m commands.CreatedMovement) Movement {
	response := Movement{
		ID:         m.ID.String(),
		Sequence:   m.Sequence,
		From:       newState(m.From),
		To:         newState(m.To),
		OccurredAt: m.OccurredAt,
	}
	response.Order.ID = m.Order.ID
	response.Order.Settled = m.Order.Settled
	response.Carrier.ID = m.Carrier.ID
	response.Carrier.Name = m.Carrier.Name
	response.Operator.ID = m.Operator.ID
	response.Operator.Name = m.Operator.Name
	response.Operator.Role = m.Operator.Role.String()
	return response
}

type OrderState struct {
	OrderID              string     `json:"orderId"`
	CarrierID            int64      `json:"carrierId"`
	LastState            *State     `json:"lastState"`
	LastOperationalState *State     `json:"lastOperationalState"`
	LastMovementAt       *time.Time `json:"lastMovementAt"`
	Settled              bool       `json:"settled"`
	Rating               *int       `json:"rating"`
}

func newOrderState(s queries.GetOrderStateQueryResponse) OrderState {
	return OrderState{
		OrderID:              s.OrderID,
		CarrierID:            s.CarrierID,
		LastState:            newState(s.LastState),
		LastOperationalState: newState(s.LastOperationalState),
		LastMovementAt:       s.LastMovementAt,
		Settled:              s.Settled,
		Rating:               s.Rating,
	}
}

type NewRating struct {
	Rating int `json:"rating"`
}

type NewRule struct {
	TargetStateID   int `json:"targetStateId"`
	RequiredStateID int `json:"requiredStateId"`
}

type StateRules struct {
	Target   State   `json:"target"`
	Required []State `json:"required"`
}

func newStateRules(r queries.GetStateRulesQueryResponse) StateRules {
	required := make([]State, len(r.Required))
	for i, s := range r.Required {
		required[i] = State{ID: s.ID, Name: s.Name}
	}
	return StateRules{
		Target:   State{ID: r.Target.ID, Name: r.Target.Name},
		Required: required,
	}
}

type Carrier struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Tracking         bool   `json:"tracking"`
	ManualSettlement bool   `json:"manualSettlement"`
}

func newCarrier(c *carrier.Carrier) Carrier {
	return Carrier{
		ID:               c.ID(),
		Name:             c.Name(),
		Tracking:         c.IsTracking(),
		ManualSettlement: c.HasManualSettlement(),
	}
}

type CarrierFlags struct {
	Tracking         *bool `json:"tracking"`
	ManualSettlement *bool `json:"manualSettlement"`
}

type CarrierFlagsResult struct {
	Carrier          Carrier `json:"carrier"`
	DeletedOrders    int64   `json:"deletedOrders"`
	DeletedMovements int64   `json:"deletedMovements"`
	SettledOrders    int     `json:"settledOrders"`
}

type SyncReport struct {
	Date                       string   `json:"date"`
	Lots                       int      `json:"lots"`
	Fetched                    int      `json:"fetched"`
	Accepted                   int      `json:"accepted"`
	MalformedManifests         int      `json:"malformedManifests"`
	CarriersCreated            int      `json:"carriersCreated"`
	CarriersUpdated            int      `json:"carriersUpdated"`
	DroppedUntracked           int      `json:"droppedUntracked"`
	DuplicatesRemoved          int      `json:"duplicatesRemoved"`
	OrdersCreated              int      `json:"ordersCreated"`
	OrdersSettled              int      `json:"ordersSettled"`
	MovementsCreated           int      `json:"movementsCreated"`
	SettlementMovementsCreated int      `json:"settlementMovementsCreated"`
	Errors                     []string `json:"errors"`
	DurationMs                 int64    `json:"durationMs"`
}

func newSyncReport(r commands.SyncReport) SyncReport {
	return SyncReport{
		Date:                       r.Date.Format(time.DateOnly),
		Lots:                       r.Lots,
		Fetched:                    r.Fetched,
		Accepted:                   r.Accepted,
		MalformedManifests:         r.MalformedManifests,
		CarriersCreated:            r.CarriersCreated,
		CarriersUpdated:            r.CarriersUpdated,
		DroppedUntracked:           r.DroppedUntracked,
		DuplicatesRemoved:          r.DuplicatesRemoved,
		OrdersCreated:              r.OrdersCreated,
		OrdersSettled:              r.OrdersSettled,
		MovementsCreated:           r.MovementsCreated,
		SettlementMovementsCreated: r.SettlementMovementsCreated,
		Errors:                     r.ErrorMessages(),
		DurationMs:                 r.Duration.Milliseconds(),
	}
}

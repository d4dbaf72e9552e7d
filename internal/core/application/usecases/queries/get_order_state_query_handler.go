package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderStateQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderStateQueryHandler(db *gorm.DB) GetOrderStateQueryHandler {
	return GetOrderStateQueryHandler{db: db}
}

// Handle reads the order row, then the latest movement and the latest
// movement into an operational state.
func (h GetOrderStateQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStateQuery,
) (GetOrderStateQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStateQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	response := GetOrderStateQueryResponse{}

	var rating sql.NullInt16
	err := db.Raw(`
		SELECT
			id,
			carrier_id,
			settled,
			rating
		FROM orders
		WHERE id = ?
	`, query.OrderID()).Row().Scan(
		&response.OrderID,
		&response.CarrierID,
		&response.Settled,
		&rating,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderStateQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderStateQueryResponse{}, err
	}
	if rating.Valid {
		value := int(rating.Int16)
		response.Rating = &value
	}

	var (
		lastState  int
		occurredAt time.Time
	)
	err = db.Raw(`
		SELECT
			to_state_id,
			occurred_at
		FROM movements
		WHERE order_id = ?
		ORDER BY sequence DESC
		LIMIT 1
	`, query.OrderID()).Row().Scan(&lastState, &occurredAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		response.LastState = lifecycle.Unknown
		response.LastOperationalState = lifecycle.Unknown
		return response, nil
	case err != nil:
		return GetOrderStateQueryResponse{}, err
	}
	response.LastState = lifecycle.State(lastState)
	response.LastMovementAt = &occurredAt

	var operational int
	err = db.Raw(`
		SELECT to_state_id
		FROM movements
		WHERE order_id = ? AND to_state_id <> ?
		ORDER BY sequence DESC
		LIMIT 1
	`, query.OrderID(), lifecycle.Settlement.ID()).Row().Scan(&operational)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		response.LastOperationalState = lifecycle.Unknown
	case err != nil:
		return GetOrderStateQueryResponse{}, err
	default:
		response.LastOperationalState = lifecycle.State(operational)
	}

	return response, nil
}

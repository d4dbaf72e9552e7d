package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetStateRulesQueryHandler struct {
	db *gorm.DB
}

func NewGetStateRulesQueryHandler(db *gorm.DB) GetStateRulesQueryHandler {
	return GetStateRulesQueryHandler{db: db}
}

func (h GetStateRulesQueryHandler) Handle(
	ctx context.Context,
	query GetStateRulesQuery,
) (GetStateRulesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStateRulesQueryResponse{}, err
	}

	response := GetStateRulesQueryResponse{
		Target:   StateResponse{ID: query.Target().ID(), Name: query.Target().String()},
		Required: make([]StateResponse, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.name
		FROM rules r
		JOIN states s ON s.id = r.required_state_id
		WHERE r.target_state_id = ?
		ORDER BY s.id
	`, query.Target().ID()).Rows()
	if err != nil {
		return GetStateRulesQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var state StateResponse
		if err = rows.Scan(&state.ID, &state.Name); err != nil {
			return GetStateRulesQueryResponse{}, err
		}
		response.Required = append(response.Required, state)
	}

	if err = rows.Err(); err != nil {
		return GetStateRulesQueryResponse{}, err
	}

	return response, nil
}

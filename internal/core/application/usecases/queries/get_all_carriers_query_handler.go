package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetAllCarriersQueryHandler struct {
	db *gorm.DB
}

func NewGetAllCarriersQueryHandler(db *gorm.DB) GetAllCarriersQueryHandler {
	return GetAllCarriersQueryHandler{db: db}
}

// Handle returns the carriers ordered by id.
func (h GetAllCarriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCarriersQuery,
) ([]GetAllCarriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	carriers := make([]GetAllCarriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			tracking,
			manual_settlement
		FROM carriers
		ORDER BY id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c GetAllCarriersQueryResponse
		if err = rows.Scan(&c.ID, &c.Name, &c.Tracking, &c.ManualSettlement); err != nil {
			return nil, err
		}
		carriers = append(carriers, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return carriers, nil
}

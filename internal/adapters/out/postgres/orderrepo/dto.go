// Package orderrepo persists order aggregates and their movement history with GORM.
package orderrepo

import (
	"time"

	"ordertracking/internal/core/domain/model/kernel"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table. Movements are loaded through the has-many
// relation but always written explicitly by the repository.
type OrderDTO struct {
	ID        string `gorm:"type:char(8);primaryKey"`
	CarrierID int64  `gorm:"not null;index"`
	CreatedAt time.Time
	Settled   bool          `gorm:"not null;default:false;index"`
	Rating    *int          `gorm:"type:smallint"`
	Movements []MovementDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// MovementDTO is the movements table. The (order_id, sequence) pair is unique,
// so two writers appending to the same order cannot both succeed.
type MovementDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     string    `gorm:"type:char(8);not null;uniqueIndex:idx_movements_order_sequence,priority:1"`
	Sequence    int       `gorm:"not null;uniqueIndex:idx_movements_order_sequence,priority:2"`
	FromStateID int       `gorm:"not null"`
	ToStateID   int       `gorm:"not null;index"`
	OperatorID  int64     `gorm:"not null;index"`
	OccurredAt  time.Time `gorm:"not null"`
}

func (MovementDTO) TableName() string {
	return "movements"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:        aggregate.ID(),
		CarrierID: aggregate.CarrierID(),
		CreatedAt: aggregate.CreatedAt(),
		Settled:   aggregate.IsSettled(),
		Rating:    aggregate.Rating(),
	}
}

func movementsFromDomain(aggregate *order.Order) []MovementDTO {
	movements := aggregate.Movements()
	dtos := make([]MovementDTO, 0, len(movements))
	for _, m := range movements {
		dtos = append(dtos, MovementDTO{
			ID:          m.ID().Bytes(),
			OrderID:     m.OrderID(),
			Sequence:    m.Sequence(),
			FromStateID: m.From().ID(),
			ToStateID:   m.To().ID(),
			OperatorID:  m.OperatorID(),
			OccurredAt:  m.OccurredAt(),
		})
	}
	return dtos
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	movements := make([]*order.Movement, 0, len(dto.Movements))
	for _, m := range dto.Movements {
		id, err := kernel.UUIDFromBytes(m.ID[:])
		if err != nil {
			return nil, err
		}

		movement, err := order.RestoreMovement(
			id,
			m.OrderID,
			m.Sequence,
			lifecycle.State(m.FromStateID),
			lifecycle.State(m.ToStateID),
			m.OperatorID,
			m.OccurredAt,
		)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return order.RestoreOrder(dto.ID, dto.CarrierID, dto.CreatedAt, dto.Settled, dto.Rating, movements)
}

package orderrepo

import (
	"context"
	"errors"

	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// findExistingBatch bounds the IN list of FindExisting.
const findExistingBatch = 1000

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order row, then its movements.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("order", aggregate.ID(), err)
		}
		return err
	}

	return r.appendMovements(ctx, aggregate)
}

// Update writes settled and rating, then appends movements not stored yet.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"carrier_id": dto.CarrierID,
		"settled":    dto.Settled,
		"rating":     dto.Rating,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	return r.appendMovements(ctx, aggregate)
}

// Get retrieves an order with its movements.
func (r *GormOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	if err := order.ValidateID(id); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withMovements(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindExisting loads the stored orders among ids in batches.
func (r *GormOrderRepository) FindExisting(ctx context.Context, ids []string) (map[string]*order.Order, error) {
	existing := make(map[string]*order.Order, len(ids))
	for start := 0; start < len(ids); start += findExistingBatch {
		end := min(start+findExistingBatch, len(ids))

		var dtos []OrderDTO
		if err := r.withMovements(ctx).Find(&dtos, "id IN ?", ids[start:end]).Error; err != nil {
			return nil, err
		}
		for _, dto := range dtos {
			o, err := toDomain(dto)
			if err != nil {
				return nil, err
			}
			existing[o.ID()] = o
		}
	}
	return existing, nil
}

// ListUnsettledByCarrier retrieves the carrier's orders with settled = false.
func (r *GormOrderRepository) ListUnsettledByCarrier(ctx context.Context, carrierID int64) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withMovements(ctx).
		Order("id").
		Find(&dtos, "carrier_id = ? AND settled = ?", carrierID, false).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// DeleteByCarrier deletes movements first, then orders, of one carrier.
func (r *GormOrderRepository) DeleteByCarrier(ctx context.Context, carrierID int64) (int64, int64, error) {
	db := r.db.WithContext(ctx)

	movements := db.
		Where("order_id IN (?)", db.Model(&OrderDTO{}).Select("id").Where("carrier_id = ?", carrierID)).
		Delete(&MovementDTO{})
	if movements.Error != nil {
		return 0, 0, movements.Error
	}

	orders := db.Where("carrier_id = ?", carrierID).Delete(&OrderDTO{})
	if orders.Error != nil {
		return 0, 0, orders.Error
	}

	return orders.RowsAffected, movements.RowsAffected, nil
}

func (r *GormOrderRepository) withMovements(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Movements", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence")
	})
}

// appendMovements inserts the history, skipping rows whose id is already
// stored. A clash on (order_id, sequence) is reported as a conflict.
func (r *GormOrderRepository) appendMovements(ctx context.Context, aggregate *order.Order) error {
	dtos := movementsFromDomain(aggregate)
	if len(dtos) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dtos).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictErrorWithCause("order", aggregate.ID(), err)
	}
	return err
}

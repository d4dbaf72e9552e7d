package operatorrepo

import (
	"context"
	"errors"
	"strconv"

	"ordertracking/internal/core/domain/model/operator"
	"ordertracking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOperatorRepository implements OperatorRepository using GORM.
type GormOperatorRepository struct {
	db *gorm.DB
}

func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

func (r *GormOperatorRepository) Add(ctx context.Context, aggregate *operator.Operator) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("operator", aggregate.ID(), err)
		}
		return err
	}

	return nil
}

func (r *GormOperatorRepository) Get(ctx context.Context, id int64) (*operator.Operator, error) {
	var dto OperatorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("operator", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormOperatorRepository) ListActiveByRoles(ctx context.Context, roles ...operator.Role) ([]*operator.Operator, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}

	var dtos []OperatorDTO
	if err := r.db.WithContext(ctx).
		Where("active = ? AND role IN ?", true, names).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	operators := make([]*operator.Operator, 0, len(dtos))
	for _, dto := range dtos {
		op, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	return operators, nil
}

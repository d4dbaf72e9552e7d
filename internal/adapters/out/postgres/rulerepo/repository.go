package rulerepo

import (
	"context"
	"errors"

	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRuleRepository implements RuleRepository using GORM.
type GormRuleRepository struct {
	db *gorm.DB
}

func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

func (r *GormRuleRepository) Add(ctx context.Context, rule lifecycle.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	dto := fromDomain(rule)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("rule", rule.String(), err)
		}
		return err
	}
	return nil
}

func (r *GormRuleRepository) Delete(ctx context.Context, rule lifecycle.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("target_state_id = ? AND required_state_id = ?", rule.Target().ID(), rule.Required().ID()).
		Delete(&RuleDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("rule", rule.String())
	}
	return nil
}

func (r *GormRuleRepository) GetAll(ctx context.Context) (lifecycle.Rules, error) {
	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).Order("target_state_id, required_state_id").Find(&dtos).Error; err != nil {
		return lifecycle.Rules{}, err
	}
	return toDomain(dtos)
}

func (r *GormRuleRepository) GetByTarget(ctx context.Context, state lifecycle.State) (lifecycle.Rules, error) {
	if err := state.Validate(); err != nil {
		return lifecycle.Rules{}, err
	}

	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).
		Where("target_state_id = ?", state.ID()).
		Order("required_state_id").
		Find(&dtos).Error; err != nil {
		return lifecycle.Rules{}, err
	}
	return toDomain(dtos)
}

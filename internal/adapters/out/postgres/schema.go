package postgres

import (
	"fmt"

	"ordertracking/internal/adapters/out/postgres/carrierrepo"
	"ordertracking/internal/adapters/out/postgres/operatorrepo"
	"ordertracking/internal/adapters/out/postgres/orderrepo"
	"ordertracking/internal/adapters/out/postgres/rulerepo"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates every table, seeds the lifecycle states and makes
// sure the system operator used by reconciliation exists. It is idempotent.
func Migrate(db *gorm.DB, systemOperatorID int64) error {
	if err := db.AutoMigrate(
		&rulerepo.StateDTO{},
		&rulerepo.RuleDTO{},
		&carrierrepo.CarrierDTO{},
		&operatorrepo.OperatorDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.MovementDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	states := rulerepo.SeedStates()
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&states).Error; err != nil {
		return fmt.Errorf("seed states: %w", err)
	}

	system := operatorrepo.OperatorDTO{
		ID:     systemOperatorID,
		Name:   "System",
		Role:   "SYSTEM",
		Active: true,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&system).Error; err != nil {
		return fmt.Errorf("seed system operator: %w", err)
	}

	return nil
}

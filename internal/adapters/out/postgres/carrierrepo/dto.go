// Package carrierrepo persists carriers with GORM.
package carrierrepo

import (
	"ordertracking/internal/core/domain/model/carrier"
)

// CarrierDTO is the carriers table. The primary key is the ERP identifier.
type CarrierDTO struct {
	ID               int64  `gorm:"primaryKey;autoIncrement:false"`
	Name             string `gorm:"not null"`
	Tracking         bool   `gorm:"not null;default:false;index"`
	ManualSettlement bool   `gorm:"not null;default:false"`
}

func (CarrierDTO) TableName() string {
	return "carriers"
}

func fromDomain(aggregate *carrier.Carrier) CarrierDTO {
	return CarrierDTO{
		ID:               aggregate.ID(),
		Name:             aggregate.Name(),
		Tracking:         aggregate.IsTracking(),
		ManualSettlement: aggregate.HasManualSettlement(),
	}
}

func toDomain(dto CarrierDTO) (*carrier.Carrier, error) {
	return carrier.RestoreCarrier(dto.ID, dto.Name, dto.Tracking, dto.ManualSettlement)
}

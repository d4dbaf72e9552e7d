// Package operatorrepo persists operators with GORM.
package operatorrepo

import (
	"ordertracking/internal/core/domain/model/operator"
)

type OperatorDTO struct {
	ID             int64  `gorm:"primaryKey;autoIncrement:false"`
	Name           string `gorm:"not null"`
	Role           string `gorm:"type:varchar(16);not null;index"`
	Active         bool   `gorm:"not null;default:true"`
	CredentialHash []byte `gorm:"type:bytea"`
}

func (OperatorDTO) TableName() string {
	return "operators"
}

func fromDomain(aggregate *operator.Operator) OperatorDTO {
	return OperatorDTO{
		ID:             aggregate.ID(),
		Name:           aggregate.Name(),
		Role:           aggregate.Role().String(),
		Active:         aggregate.IsActive(),
		CredentialHash: aggregate.CredentialHash(),
	}
}

func toDomain(dto OperatorDTO) (*operator.Operator, error) {
	role, err := operator.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	return operator.RestoreOperator(dto.ID, dto.Name, role, dto.Active, dto.CredentialHash)
}

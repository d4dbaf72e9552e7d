// Package rulerepo persists lifecycle states and prerequisite rules with GORM.
package rulerepo

import (
	"ordertracking/internal/core/domain/model/lifecycle"
)

// StateDTO is the states table, seeded by the schema migration.
type StateDTO struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"type:varchar(32);not null;uniqueIndex"`
}

func (StateDTO) TableName() string {
	return "states"
}

// RuleDTO is the rules table. A rule is identified by its two states.
type RuleDTO struct {
	TargetStateID   int      `gorm:"primaryKey;autoIncrement:false"`
	RequiredStateID int      `gorm:"primaryKey;autoIncrement:false"`
	TargetState     StateDTO `gorm:"foreignKey:TargetStateID;references:ID;constraint:OnDelete:RESTRICT"`
	RequiredState   StateDTO `gorm:"foreignKey:RequiredStateID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (RuleDTO) TableName() string {
	return "rules"
}

// SeedStates returns one row per lifecycle state.
func SeedStates() []StateDTO {
	states := lifecycle.AllStates()
	dtos := make([]StateDTO, 0, len(states))
	for _, s := range states {
		dtos = append(dtos, StateDTO{ID: s.ID(), Name: s.String()})
	}
	return dtos
}

func fromDomain(rule lifecycle.Rule) RuleDTO {
	return RuleDTO{
		TargetStateID:   rule.Target().ID(),
		RequiredStateID: rule.Required().ID(),
	}
}

func toDomain(dtos []RuleDTO) (lifecycle.Rules, error) {
	rules := make([]lifecycle.Rule, 0, len(dtos))
	for _, dto := range dtos {
		rule, err := lifecycle.NewRule(lifecycle.State(dto.TargetStateID), lifecycle.State(dto.RequiredStateID))
		if err != nil {
			return lifecycle.Rules{}, err
		}
		rules = append(rules, rule)
	}
	return lifecycle.NewRules(rules...)
}

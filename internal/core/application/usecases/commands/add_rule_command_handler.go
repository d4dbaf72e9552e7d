package commands

import (
	"context"
)

// AddRuleCommandHandler adds a prerequisite rule after checking it against the
// whole graph: duplicates are conflicts and cycles are rule violations.
type AddRuleCommandHandler struct {
	uowFactory RuleUoWFactory
}

func NewAddRuleCommandHandler(uowFactory RuleUoWFactory) AddRuleCommandHandler {
	return AddRuleCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *AddRuleCommandHandler) Handle(ctx context.Context, cmd AddRuleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ruleRepo := uow.RuleRepository()
	rules, err := ruleRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	if err = rules.Add(cmd.Rule()); err != nil {
		return err
	}

	if err = ruleRepo.Add(ctx, cmd.Rule()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

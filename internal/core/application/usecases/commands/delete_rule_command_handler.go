package commands

import (
	"context"
)

// DeleteRuleCommandHandler removes a prerequisite rule. Removing an edge can
// never create a cycle, so no graph check is needed.
type DeleteRuleCommandHandler struct {
	uowFactory RuleUoWFactory
}

func NewDeleteRuleCommandHandler(uowFactory RuleUoWFactory) DeleteRuleCommandHandler {
	return DeleteRuleCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *DeleteRuleCommandHandler) Handle(ctx context.Context, cmd DeleteRuleCommand) error {
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

	if err := uow.RuleRepository().Delete(ctx, cmd.Rule()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

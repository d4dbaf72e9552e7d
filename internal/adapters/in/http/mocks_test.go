package http_test

import (
	"context"
	"time"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockCreateMovementHandler struct{ mock.Mock }

func (m *MockCreateMovementHandler) Handle(
	ctx context.Context,
	cmd commands.CreateMovementCommand,
) (commands.CreatedMovement, error) {
	args := m.Called(ctx, cmd)
	created, _ := args.Get(0).(commands.CreatedMovement)
	return created, args.Error(1)
}

type MockRateOrderHandler struct{ mock.Mock }

func (m *MockRateOrderHandler) Handle(ctx context.Context, cmd commands.RateOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockAddRuleHandler struct{ mock.Mock }

func (m *MockAddRuleHandler) Handle(ctx context.Context, cmd commands.AddRuleCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockDeleteRuleHandler struct{ mock.Mock }

func (m *MockDeleteRuleHandler) Handle(ctx context.Context, cmd commands.DeleteRuleCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockSetCarrierFlagsHandler struct{ mock.Mock }

func (m *MockSetCarrierFlagsHandler) Handle(
	ctx context.Context,
	cmd commands.SetCarrierFlagsCommand,
) (commands.CarrierFlagsResult, error) {
	args := m.Called(ctx, cmd)
	result, _ := args.Get(0).(commands.CarrierFlagsResult)
	return result, args.Error(1)
}

type MockGetOrderStateHandler struct{ mock.Mock }

func (m *MockGetOrderStateHandler) Handle(
	ctx context.Context,
	query queries.GetOrderStateQuery,
) (queries.GetOrderStateQueryResponse, error) {
	args := m.Called(ctx, query)
	response, _ := args.Get(0).(queries.GetOrderStateQueryResponse)
	return response, args.Error(1)
}

type MockGetStateRulesHandler struct{ mock.Mock }

func (m *MockGetStateRulesHandler) Handle(
	ctx context.Context,
	query queries.GetStateRulesQuery,
) (queries.GetStateRulesQueryResponse, error) {
	args := m.Called(ctx, query)
	response, _ := args.Get(0).(queries.GetStateRulesQueryResponse)
	return response, args.Error(1)
}

type MockGetAllCarriersHandler struct{ mock.Mock }

func (m *MockGetAllCarriersHandler) Handle(
	ctx context.Context,
	query queries.GetAllCarriersQuery,
) ([]queries.GetAllCarriersQueryResponse, error) {
	args := m.Called(ctx, query)
	response, _ := args.Get(0).([]queries.GetAllCarriersQueryResponse)
	return response, args.Error(1)
}

type MockSyncRunner struct{ mock.Mock }

func (m *MockSyncRunner) RunNow(ctx context.Context, date time.Time) (commands.SyncReport, error) {
	args := m.Called(ctx, date)
	report, _ := args.Get(0).(commands.SyncReport)
	return report, args.Error(1)
}

package jobs_test

import (
	"context"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockSyncHandler struct{ mock.Mock }

func (m *MockSyncHandler) Handle(ctx context.Context, cmd commands.SyncSalesCommand) (commands.SyncReport, error) {
	args := m.Called(ctx, cmd)
	report, _ := args.Get(0).(commands.SyncReport)
	return report, args.Error(1)
}

type MockAlertSink struct{ mock.Mock }

func (m *MockAlertSink) Send(ctx context.Context, alert ports.Alert) error {
	return m.Called(ctx, alert).Error(0)
}

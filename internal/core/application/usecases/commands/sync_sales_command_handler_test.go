package commands_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/domain/model/carrier"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/core/domain/model/sales"
	"ordertracking/internal/core/domain/services"
	"ordertracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var salesFilter = sales.Filter{
	CompanyID:   1,
	CompanyName: "Distribuidora Norte",
	WarehouseID: 2,
	BranchID:    3,
}

func sale(manifest string, carrierID int64, carrierName string, settled bool) sales.Record {
	r := sales.Record{
		CompanyID:   1,
		CompanyName: "DISTRIBUIDORA NORTE ",
		WarehouseID: 2,
		BranchID:    3,
		Manifest:    manifest,
		CarrierID:   carrierID,
		CarrierName: carrierName,
	}
	if settled {
		at := time.Date(2026, 10, 13, 18, 0, 0, 0, time.UTC)
		r.SettlementID = 5001
		r.SettlementDate = &at
	}
	return r
}

// newSharedUoW returns a unit of work that every Create call hands out.
func newSharedUoW() (*MockUoW, *MockUoWFactory) {
	uow := newMockUoW()
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)
	return uow, factory
}

func newSyncHandler(factory *MockUoWFactory, source *MockSalesSource) commands.SyncSalesCommandHandler {
	return commands.NewSyncSalesCommandHandler(
		factory,
		source,
		services.NewTransitionValidator(),
		commands.SyncSettings{Filter: salesFilter, SystemOperatorID: systemID},
		slog.New(slog.DiscardHandler),
	)
}

func newSyncCommand(t *testing.T) commands.SyncSalesCommand {
	t.Helper()
	cmd, err := commands.NewSyncSalesCommand(time.Date(2026, 10, 13, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return cmd
}

func withID(id string) any {
	return mock.MatchedBy(func(o *order.Order) bool { return o.ID() == id })
}

func TestNewSyncSalesCommand(t *testing.T) {
	t.Run("should truncate to the calendar day", func(t *testing.T) {
		cmd, err := commands.NewSyncSalesCommand(time.Date(2026, 10, 13, 15, 30, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), cmd.Date())
	})

	t.Run("should require a date", func(t *testing.T) {
		_, err := commands.NewSyncSalesCommand(time.Time{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestSyncSalesCommandHandler_Handle_Reconciles(t *testing.T) {
	voided := sale("0001-00000009", carrierID, "Andreani SA", false)
	voided.Voided = true

	source := new(MockSalesSource)
	source.On("Login", mock.Anything).Return(nil).Once()
	source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
		Descriptor: "lot obtained: 1/2. total comprobantes: 8",
		Records: []sales.Record{
			sale("0001-00000001", carrierID, "Andreani SA", false),
			sale("0001-00000002", carrierID, "Andreani SA", true),
			sale("0002 - 00000001", carrierID, "Andreani SA", true),
			sale("X-1", carrierID, "Andreani SA", false),
		},
	}, nil).Once()
	source.On("FetchSalesLot", mock.Anything, mock.Anything, 2).Return(sales.Lot{
		Descriptor: "lot obtained: 2/2. total comprobantes: 8",
		Records: []sales.Record{
			voided,
			sale("0001-00000003", 20, "OCA", false),
			sale("0001-00000004", carrierID, "Andreani SA", true),
			sale("0001-00000005", carrierID, "Andreani SA", true),
		},
	}, nil).Once()

	pending := orderWithHistory("00000004", carrierID, step{lifecycle.Ingest, lifecycle.Pending, systemID})
	settled := orderWithHistory("00000005", carrierID,
		step{lifecycle.Ingest, lifecycle.Pending, systemID},
		step{lifecycle.Pending, lifecycle.Settlement, systemID},
	)

	uow, factory := newSharedUoW()
	uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
	uow.carriers.On("Update", mock.Anything, mock.MatchedBy(func(c *carrier.Carrier) bool {
		return c.ID() == carrierID && c.Name() == "Andreani SA"
	})).Return(nil).Once()
	uow.carriers.On("Add", mock.Anything, mock.MatchedBy(func(c *carrier.Carrier) bool {
		return c.ID() == 20 && !c.IsTracking()
	})).Return(nil).Once()
	uow.orders.On("FindExisting", mock.Anything, []string{"00000001", "00000002", "00000004", "00000005"}).
		Return(map[string]*order.Order{"00000004": pending, "00000005": settled}, nil).Once()
	uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).Return(mustRules(), nil).Once()

	var created []*order.Order
	uow.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*order.Order)) }).
		Return(nil).Twice()
	uow.orders.On("Update", mock.Anything, pending).Return(nil).Once()

	h := newSyncHandler(factory, source)

	report, err := h.Handle(t.Context(), newSyncCommand(t))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Lots)
	assert.Equal(t, 8, report.Fetched)
	assert.Equal(t, 7, report.Accepted)
	assert.Equal(t, 1, report.MalformedManifests)
	assert.Equal(t, 1, report.CarriersCreated)
	assert.Equal(t, 1, report.CarriersUpdated)
	assert.Equal(t, 1, report.DroppedUntracked)
	assert.Equal(t, 1, report.DuplicatesRemoved)
	assert.Equal(t, 2, report.OrdersCreated)
	assert.Equal(t, 2, report.OrdersSettled)
	assert.Equal(t, 4, report.MovementsCreated)
	assert.Equal(t, 2, report.SettlementMovementsCreated)
	assert.Empty(t, report.Errors)

	require.Len(t, created, 2)
	assert.Equal(t, "00000001", created[0].ID())
	assert.Equal(t, lifecycle.Pending, created[0].LastState())
	assert.False(t, created[0].IsSettled())
	assert.Equal(t, "00000002", created[1].ID())
	assert.Equal(t, lifecycle.Settlement, created[1].LastState())
	assert.Equal(t, lifecycle.Pending, created[1].LastOperationalState())
	for _, m := range created[1].Movements() {
		assert.Equal(t, systemID, m.OperatorID())
	}

	assert.True(t, pending.IsSettled())
	assert.Len(t, settled.Movements(), 2)

	source.AssertExpectations(t)
	uow.assertExpectations(t)
}

func TestSyncSalesCommandHandler_Handle_IsIdempotent(t *testing.T) {
	source := new(MockSalesSource)
	source.On("Login", mock.Anything).Return(nil).Once()
	source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
		Descriptor: "lot obtained: 1/1",
		Records:    []sales.Record{sale("0001-00000001", carrierID, "Andreani", true)},
	}, nil).Once()

	existing := orderWithHistory("00000001", carrierID,
		step{lifecycle.Ingest, lifecycle.Pending, systemID},
		step{lifecycle.Pending, lifecycle.Settlement, systemID},
	)

	uow, factory := newSharedUoW()
	uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
	uow.orders.On("FindExisting", mock.Anything, []string{"00000001"}).
		Return(map[string]*order.Order{"00000001": existing}, nil).Once()
	uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).Return(mustRules(), nil).Once()

	h := newSyncHandler(factory, source)

	report, err := h.Handle(t.Context(), newSyncCommand(t))

	require.NoError(t, err)
	assert.Zero(t, report.OrdersCreated)
	assert.Zero(t, report.OrdersSettled)
	assert.Zero(t, report.MovementsCreated)
	assert.Zero(t, report.CarriersUpdated)
	uow.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.assertExpectations(t)
}

func TestSyncSalesCommandHandler_Handle_ItemErrors(t *testing.T) {
	t.Run("should collect an order without history and continue", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{
				sale("0001-00000001", carrierID, "Andreani", true),
				sale("0001-00000002", carrierID, "Andreani", false),
			},
		}, nil).Once()

		empty, err := order.NewOrder("00000001", carrierID, time.Now())
		require.NoError(t, err)

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
		uow.orders.On("FindExisting", mock.Anything, mock.Anything).
			Return(map[string]*order.Order{"00000001": empty}, nil).Once()
		uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).Return(mustRules(), nil).Once()
		uow.orders.On("Add", mock.Anything, withID("00000002")).Return(nil).Once()

		h := newSyncHandler(factory, source)

		report, err := h.Handle(t.Context(), newSyncCommand(t))

		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "00000001", report.Errors[0].OrderID)
		assert.Equal(t, 1, report.OrdersCreated)
		uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.assertExpectations(t)
	})

	t.Run("should collect an ingestion rule violation", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{sale("0001-00000001", carrierID, "Andreani", false)},
		}, nil).Once()

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
		uow.orders.On("FindExisting", mock.Anything, mock.Anything).Return(map[string]*order.Order{}, nil).Once()
		uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).
			Return(mustRules([2]lifecycle.State{lifecycle.Pending, lifecycle.Prepared}), nil).Once()

		h := newSyncHandler(factory, source)

		report, err := h.Handle(t.Context(), newSyncCommand(t))

		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
		require.ErrorIs(t, report.Errors[0].Err, errs.ErrRuleViolation)
		assert.Zero(t, report.OrdersCreated)
		uow.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("should collect a conflicting insert", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{
				sale("0001-00000001", carrierID, "Andreani", false),
				sale("0001-00000002", carrierID, "Andreani", false),
			},
		}, nil).Once()

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
		uow.orders.On("FindExisting", mock.Anything, mock.Anything).Return(map[string]*order.Order{}, nil).Once()
		uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).Return(mustRules(), nil).Once()
		uow.orders.On("Add", mock.Anything, withID("00000001")).
			Return(errs.NewConflictError("order", "00000001")).Once()
		uow.orders.On("Add", mock.Anything, withID("00000002")).Return(nil).Once()

		h := newSyncHandler(factory, source)

		report, err := h.Handle(t.Context(), newSyncCommand(t))

		require.NoError(t, err)
		require.Len(t, report.Errors, 1)
		require.ErrorIs(t, report.Errors[0].Err, errs.ErrConflict)
		assert.Equal(t, 1, report.OrdersCreated)
		assert.Len(t, report.ErrorMessages(), 1)
		uow.assertExpectations(t)
	})
}

func TestSyncSalesCommandHandler_Handle_Aborts(t *testing.T) {
	t.Run("should return a login failure", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).
			Return(errs.NewExternalServiceError("erp", errors.New("status 401"))).Once()
		factory := new(MockUoWFactory)

		h := newSyncHandler(factory, source)

		_, err := h.Handle(t.Context(), newSyncCommand(t))

		require.ErrorIs(t, err, errs.ErrExternalService)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("should return a failed lot", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).
			Return(sales.Lot{Descriptor: "lot obtained: 1/3"}, nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 2).
			Return(sales.Lot{}, errs.NewTransientExternalServiceError("erp", errors.New("timeout"))).Once()
		factory := new(MockUoWFactory)

		h := newSyncHandler(factory, source)

		_, err := h.Handle(t.Context(), newSyncCommand(t))

		var external *errs.ExternalServiceError
		require.ErrorAs(t, err, &external)
		assert.True(t, external.Transient)
		source.AssertNotCalled(t, "FetchSalesLot", mock.Anything, mock.Anything, 3)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("should wrap a carrier load failure as a storage error", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{sale("0001-00000001", carrierID, "Andreani", false)},
		}, nil).Once()

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return(nil, errors.New("connection reset")).Once()

		h := newSyncHandler(factory, source)

		_, err := h.Handle(t.Context(), newSyncCommand(t))

		require.ErrorIs(t, err, errs.ErrStorage)
		uow.orders.AssertNotCalled(t, "FindExisting", mock.Anything, mock.Anything)
	})

	t.Run("should wrap an existence lookup failure as a storage error", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{sale("0001-00000001", carrierID, "Andreani", false)},
		}, nil).Once()

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
		uow.orders.On("FindExisting", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

		h := newSyncHandler(factory, source)

		_, err := h.Handle(t.Context(), newSyncCommand(t))

		require.ErrorIs(t, err, errs.ErrStorage)
	})
}

func TestSyncSalesCommandHandler_Handle_AbortsOnWriteFailure(t *testing.T) {
	t.Run("should stop at the first failed order write", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{
				sale("0001-00000001", carrierID, "Andreani", false),
				sale("0001-00000002", carrierID, "Andreani", false),
				sale("0001-00000003", carrierID, "Andreani", false),
			},
		}, nil).Once()

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
		uow.orders.On("FindExisting", mock.Anything, mock.Anything).Return(map[string]*order.Order{}, nil).Once()
		uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).Return(mustRules(), nil).Once()
		uow.orders.On("Add", mock.Anything, withID("00000001")).
			Return(errors.New("driver: bad connection")).Once()

		h := newSyncHandler(factory, source)

		report, err := h.Handle(t.Context(), newSyncCommand(t))

		require.ErrorIs(t, err, errs.ErrStorage)
		assert.Contains(t, err.Error(), "00000001")
		assert.Empty(t, report.Errors)
		assert.Zero(t, report.OrdersCreated)
		uow.orders.AssertNotCalled(t, "Add", mock.Anything, withID("00000002"))
		uow.orders.AssertNotCalled(t, "Add", mock.Anything, withID("00000003"))
	})

	t.Run("should stop when settling an existing order cannot be stored", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{sale("0001-00000001", carrierID, "Andreani", true)},
		}, nil).Once()

		existing := orderWithHistory("00000001", carrierID, step{lifecycle.Ingest, lifecycle.Pending, systemID})

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{newCarrier(carrierID, true, false)}, nil).Once()
		uow.orders.On("FindExisting", mock.Anything, mock.Anything).
			Return(map[string]*order.Order{"00000001": existing}, nil).Once()
		uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).Return(mustRules(), nil).Once()
		uow.orders.On("Update", mock.Anything, withID("00000001")).
			Return(errors.New("connection reset")).Once()

		h := newSyncHandler(factory, source)

		_, err := h.Handle(t.Context(), newSyncCommand(t))

		var storageErr *errs.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "update order", storageErr.Operation)
	})
}

func TestSyncSalesCommandHandler_Handle_BlankCarrierName(t *testing.T) {
	t.Run("should keep a stored name", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{sale("0001-00000001", carrierID, "  ", false)},
		}, nil).Once()

		stored := newCarrier(carrierID, true, false)

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{stored}, nil).Once()
		uow.orders.On("FindExisting", mock.Anything, mock.Anything).Return(map[string]*order.Order{}, nil).Once()
		uow.rules.On("GetByTarget", mock.Anything, lifecycle.Pending).Return(mustRules(), nil).Once()
		uow.orders.On("Add", mock.Anything, withID("00000001")).Return(nil).Once()

		h := newSyncHandler(factory, source)

		report, err := h.Handle(t.Context(), newSyncCommand(t))

		require.NoError(t, err)
		assert.Equal(t, "Andreani", stored.Name())
		assert.Zero(t, report.CarriersUpdated)
		uow.carriers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should name a new carrier after its id", func(t *testing.T) {
		source := new(MockSalesSource)
		source.On("Login", mock.Anything).Return(nil).Once()
		source.On("FetchSalesLot", mock.Anything, mock.Anything, 1).Return(sales.Lot{
			Records: []sales.Record{sale("0001-00000001", 77, "", false)},
		}, nil).Once()

		uow, factory := newSharedUoW()
		uow.carriers.On("GetAll", mock.Anything).Return([]*carrier.Carrier{}, nil).Once()
		uow.carriers.On("Add", mock.Anything, mock.MatchedBy(func(c *carrier.Carrier) bool {
			return c.ID() == 77 && c.Name() == "Carrier 77"
		})).Return(nil).Once()

		h := newSyncHandler(factory, source)

		report, err := h.Handle(t.Context(), newSyncCommand(t))

		require.NoError(t, err)
		assert.Equal(t, 1, report.CarriersCreated)
		assert.Equal(t, 1, report.DroppedUntracked)
		uow.carriers.AssertExpectations(t)
	})
}

func TestSyncSalesCommandHandler_Handle_NotConstructed(t *testing.T) {
	h := newSyncHandler(new(MockUoWFactory), new(MockSalesSource))

	_, err := h.Handle(t.Context(), commands.SyncSalesCommand{})

	require.ErrorIs(t, err, commands.ErrSyncSalesCommandIsNotConstructed)
}

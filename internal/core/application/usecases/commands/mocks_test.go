package commands_test

import (
	"context"
	"fmt"
	"time"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/domain/model/carrier"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/operator"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/core/domain/model/sales"
	"ordertracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindExisting(ctx context.Context, ids []string) (map[string]*order.Order, error) {
	args := m.Called(ctx, ids)
	existing, _ := args.Get(0).(map[string]*order.Order)
	return existing, args.Error(1)
}

func (m *MockOrderRepository) ListUnsettledByCarrier(ctx context.Context, carrierID int64) ([]*order.Order, error) {
	args := m.Called(ctx, carrierID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) DeleteByCarrier(ctx context.Context, carrierID int64) (int64, int64, error) {
	args := m.Called(ctx, carrierID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockCarrierRepository struct{ mock.Mock }

func (m *MockCarrierRepository) Add(ctx context.Context, c *carrier.Carrier) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCarrierRepository) Update(ctx context.Context, c *carrier.Carrier) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCarrierRepository) Get(ctx context.Context, id int64) (*carrier.Carrier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*carrier.Carrier)
	return c, args.Error(1)
}

func (m *MockCarrierRepository) GetAll(ctx context.Context) ([]*carrier.Carrier, error) {
	args := m.Called(ctx)
	carriers, _ := args.Get(0).([]*carrier.Carrier)
	return carriers, args.Error(1)
}

type MockOperatorRepository struct{ mock.Mock }

func (m *MockOperatorRepository) Add(ctx context.Context, op *operator.Operator) error {
	return m.Called(ctx, op).Error(0)
}

func (m *MockOperatorRepository) Get(ctx context.Context, id int64) (*operator.Operator, error) {
	args := m.Called(ctx, id)
	op, _ := args.Get(0).(*operator.Operator)
	return op, args.Error(1)
}

func (m *MockOperatorRepository) ListActiveByRoles(ctx context.Context, roles ...operator.Role) ([]*operator.Operator, error) {
	args := m.Called(ctx, roles)
	ops, _ := args.Get(0).([]*operator.Operator)
	return ops, args.Error(1)
}

type MockRuleRepository struct{ mock.Mock }

func (m *MockRuleRepository) Add(ctx context.Context, rule lifecycle.Rule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepository) Delete(ctx context.Context, rule lifecycle.Rule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepository) GetAll(ctx context.Context) (lifecycle.Rules, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).(lifecycle.Rules)
	return rules, args.Error(1)
}

func (m *MockRuleRepository) GetByTarget(ctx context.Context, state lifecycle.State) (lifecycle.Rules, error) {
	args := m.Called(ctx, state)
	rules, _ := args.Get(0).(lifecycle.Rules)
	return rules, args.Error(1)
}

// MockUoW hands out fixed repositories.
type MockUoW struct {
	mock.Mock
	orders    *MockOrderRepository
	carriers  *MockCarrierRepository
	operators *MockOperatorRepository
	rules     *MockRuleRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:    new(MockOrderRepository),
		carriers:  new(MockCarrierRepository),
		operators: new(MockOperatorRepository),
		rules:     new(MockRuleRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockUoW) CarrierRepository() ports.CarrierRepository   { return m.carriers }
func (m *MockUoW) OperatorRepository() ports.OperatorRepository { return m.operators }
func (m *MockUoW) RuleRepository() ports.RuleRepository         { return m.rules }

func (m *MockUoW) assertExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.carriers.AssertExpectations(t)
	m.operators.AssertExpectations(t)
	m.rules.AssertExpectations(t)
}

// expectCommitted registers a successful Begin, Commit and the deferred Rollback.
func (m *MockUoW) expectCommitted() {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Commit", mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

// expectRolledBack registers a successful Begin followed by the deferred Rollback.
func (m *MockUoW) expectRolledBack() {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

type MockUoWFactory struct {
	mock.Mock
}

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockRuleUoWFactory struct{ mock.Mock }

func (m *MockRuleUoWFactory) Create() commands.RuleUoW {
	return m.Called().Get(0).(commands.RuleUoW)
}

type MockSalesSource struct{ mock.Mock }

func (m *MockSalesSource) Login(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSalesSource) FetchSalesLot(ctx context.Context, date time.Time, lot int) (sales.Lot, error) {
	args := m.Called(ctx, date, lot)
	result, _ := args.Get(0).(sales.Lot)
	return result, args.Error(1)
}

func newOperator(id int64, role operator.Role, code string) *operator.Operator {
	op, err := operator.NewOperator(id, fmt.Sprintf("Operator %d", id), role, code)
	if err != nil {
		panic(err)
	}
	return op
}

func newCarrier(id int64, tracking, manualSettlement bool) *carrier.Carrier {
	c, err := carrier.RestoreCarrier(id, "Andreani", tracking, manualSettlement)
	if err != nil {
		panic(err)
	}
	return c
}

func mustRules(rules ...[2]lifecycle.State) lifecycle.Rules {
	built := make([]lifecycle.Rule, 0, len(rules))
	for _, r := range rules {
		rule, err := lifecycle.NewRule(r[0], r[1])
		if err != nil {
			panic(err)
		}
		built = append(built, rule)
	}
	registry, err := lifecycle.NewRules(built...)
	if err != nil {
		panic(err)
	}
	return registry
}

type step struct {
	from, to   lifecycle.State
	operatorID int64
}

// orderWithHistory builds an order carrying the given movements.
func orderWithHistory(id string, carrierID int64, steps ...step) *order.Order {
	o, err := order.NewOrder(id, carrierID, time.Now())
	if err != nil {
		panic(err)
	}
	for _, s := range steps {
		if _, err = o.Record(s.from, s.to, s.operatorID, time.Now()); err != nil {
			panic(err)
		}
	}
	return o
}

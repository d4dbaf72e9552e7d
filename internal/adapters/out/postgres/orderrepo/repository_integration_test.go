package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"ordertracking/internal/adapters/out/postgres/orderrepo"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const systemOperatorID = 1

// OrderRepositoryIntegrationTestSuite runs the order repository against a real
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.MovementDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE movements, orders").Error)

	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NewOrderWithIngestMovement_PersistsHistory() {
	ctx := context.Background()
	o := suite.newPendingOrder("00287573", 10)

	suite.Require().NoError(suite.repository.Add(ctx, o))

	stored, err := suite.repository.Get(ctx, "00287573")
	suite.Require().NoError(err)
	suite.Equal(int64(10), stored.CarrierID())
	suite.False(stored.IsSettled())
	suite.Nil(stored.Rating())
	suite.Require().Len(stored.Movements(), 1)
	suite.Equal(lifecycle.Ingest, stored.Movements()[0].From())
	suite.Equal(lifecycle.Pending, stored.Movements()[0].To())
	suite.Equal(1, stored.Movements()[0].Sequence())
	suite.True(o.Movements()[0].ID().IsEqual(stored.Movements()[0].ID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateOrder_ReturnsConflict() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00287573", 10)))

	err := suite.repository.Add(ctx, suite.newPendingOrder("00287573", 10))

	suite.Require().ErrorIs(err, errs.ErrConflict)
	suite.assertMovementCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	stored, err := suite.repository.Get(context.Background(), "99999999")

	suite.Nil(stored)
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_MalformedID_ReturnsValidationError() {
	_, err := suite.repository.Get(context.Background(), "1234")

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AppendsOnlyNewMovements() {
	ctx := context.Background()
	o := suite.newPendingOrder("00287573", 10)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	loaded, err := suite.repository.Get(ctx, "00287573")
	suite.Require().NoError(err)
	_, err = loaded.Record(lifecycle.Pending, lifecycle.InPreparation, 42, time.Now())
	suite.Require().NoError(err)
	_, err = loaded.Record(lifecycle.InPreparation, lifecycle.Prepared, 42, time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	stored, err := suite.repository.Get(ctx, "00287573")
	suite.Require().NoError(err)
	suite.Require().Len(stored.Movements(), 3)
	suite.Equal(lifecycle.Prepared, stored.LastState())
	suite.Equal([]int{1, 2, 3}, sequences(stored))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_SettlementAndRating_Persisted() {
	ctx := context.Background()
	o := suite.newPendingOrder("00287573", 10)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	for _, step := range [][2]lifecycle.State{
		{lifecycle.Pending, lifecycle.InPreparation},
		{lifecycle.InPreparation, lifecycle.Prepared},
		{lifecycle.Prepared, lifecycle.Delivered},
		{lifecycle.Delivered, lifecycle.Settlement},
	} {
		_, err := o.Record(step[0], step[1], 42, time.Now())
		suite.Require().NoError(err)
	}
	suite.Require().NoError(o.Rate(4))

	suite.Require().NoError(suite.repository.Update(ctx, o))

	stored, err := suite.repository.Get(ctx, "00287573")
	suite.Require().NoError(err)
	suite.True(stored.IsSettled())
	suite.Require().NotNil(stored.Rating())
	suite.Equal(4, *stored.Rating())
	suite.Equal(lifecycle.Delivered, stored.LastOperationalState())
	suite.Equal(lifecycle.Settlement, stored.LastState())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ConcurrentAppendOnSameSequence_ReturnsConflict() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00287573", 10)))

	first, err := suite.repository.Get(ctx, "00287573")
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, "00287573")
	suite.Require().NoError(err)

	_, err = first.Record(lifecycle.Pending, lifecycle.InPreparation, 42, time.Now())
	suite.Require().NoError(err)
	_, err = second.Record(lifecycle.Pending, lifecycle.InPreparation, 43, time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, first))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrConflict)
	suite.assertMovementCount(2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFoundError() {
	o, err := order.NewOrder("00287573", 10, time.Now())
	suite.Require().NoError(err)

	err = suite.repository.Update(context.Background(), o)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindExisting_ReturnsOnlyStoredOrders() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00000001", 10)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00000003", 11)))

	existing, err := suite.repository.FindExisting(ctx, []string{"00000001", "00000002", "00000003"})

	suite.Require().NoError(err)
	suite.Len(existing, 2)
	suite.Contains(existing, "00000001")
	suite.Contains(existing, "00000003")
	suite.NotContains(existing, "00000002")
	suite.Len(existing["00000003"].Movements(), 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindExisting_EmptyInput_ReturnsEmptyMap() {
	existing, err := suite.repository.FindExisting(context.Background(), nil)

	suite.Require().NoError(err)
	suite.Empty(existing)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListUnsettledByCarrier_SkipsSettledAndOtherCarriers() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00000002", 10)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00000001", 10)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00000003", 11)))

	settled := suite.newPendingOrder("00000004", 10)
	_, err := settled.Record(lifecycle.Pending, lifecycle.Settlement, systemOperatorID, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, settled))

	orders, err := suite.repository.ListUnsettledByCarrier(ctx, 10)

	suite.Require().NoError(err)
	suite.Require().Len(orders, 2)
	suite.Equal("00000001", orders[0].ID())
	suite.Equal("00000002", orders[1].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDeleteByCarrier_RemovesOrdersAndMovements() {
	ctx := context.Background()

	two := suite.newPendingOrder("00000001", 10)
	_, err := two.Record(lifecycle.Pending, lifecycle.InPreparation, 42, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, two))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00000002", 10)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPendingOrder("00000003", 11)))

	orders, movements, err := suite.repository.DeleteByCarrier(ctx, 10)

	suite.Require().NoError(err)
	suite.Equal(int64(2), orders)
	suite.Equal(int64(3), movements)
	suite.assertMovementCount(1)

	_, err = suite.repository.Get(ctx, "00000003")
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) newPendingOrder(id string, carrierID int64) *order.Order {
	o, err := order.NewOrder(id, carrierID, time.Now())
	suite.Require().NoError(err)
	_, err = o.Record(lifecycle.Ingest, lifecycle.Pending, systemOperatorID, time.Now())
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertMovementCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.MovementDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func sequences(o *order.Order) []int {
	out := make([]int, 0, len(o.Movements()))
	for _, m := range o.Movements() {
		out = append(out, m.Sequence())
	}
	return out
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

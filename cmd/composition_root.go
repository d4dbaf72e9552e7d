package cmd

import (
	"log/slog"

	httpin "ordertracking/internal/adapters/in/http"
	"ordertracking/internal/adapters/out/alerts"
	"ordertracking/internal/adapters/out/erp"
	"ordertracking/internal/adapters/out/postgres"
	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/application/usecases/queries"
	"ordertracking/internal/core/domain/model/sales"
	"ordertracking/internal/core/domain/services"
	"ordertracking/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, use cases and jobs. Every handler gets its
// own view of the unit of work factory; a unit of work is created per request
// or run.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	validator services.TransitionValidator
	policy    services.MovementPolicy

	jobManager *jobs.JobManager
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		validator:  services.NewTransitionValidator(),
		policy:     services.NewMovementPolicy(),
	}
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateMovementCommandHandler() *commands.CreateMovementCommandHandler {
	h := commands.NewCreateMovementCommandHandler(c.fullUoWFactory(), c.validator, c.policy)
	return &h
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() *commands.RateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewRateOrderCommandHandler(f)
	return &h
}

func (c *CompositionRoot) ruleUoWFactory() commands.RuleUoWFactory {
	return FuncRuleUoWFactory(func() commands.RuleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAddRuleCommandHandler() *commands.AddRuleCommandHandler {
	h := commands.NewAddRuleCommandHandler(c.ruleUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateDeleteRuleCommandHandler() *commands.DeleteRuleCommandHandler {
	h := commands.NewDeleteRuleCommandHandler(c.ruleUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateSetCarrierFlagsCommandHandler() *commands.SetCarrierFlagsCommandHandler {
	h := commands.NewSetCarrierFlagsCommandHandler(c.fullUoWFactory(), c.config.SystemOperatorID, c.logger)
	return &h
}

func (c *CompositionRoot) CreateSyncSalesCommandHandler() *commands.SyncSalesCommandHandler {
	source := erp.NewClient(erp.Config{
		BaseURL:        c.config.ERPBaseURL,
		Username:       c.config.ERPUsername,
		Password:       c.config.ERPPassword,
		RequestTimeout: c.config.ERPRequestTimeout,
	}, c.logger)

	h := commands.NewSyncSalesCommandHandler(c.fullUoWFactory(), source, c.validator, commands.SyncSettings{
		Filter: sales.Filter{
			CompanyID:   c.config.ERPCompanyID,
			CompanyName: c.config.ERPCompanyName,
			WarehouseID: c.config.ERPWarehouseID,
			BranchID:    c.config.ERPBranchID,
		},
		SystemOperatorID: c.config.SystemOperatorID,
		FetchTimeout:     c.config.ERPFetchTimeout,
	}, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderStateQueryHandler() queries.GetOrderStateQueryHandler {
	return queries.NewGetOrderStateQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStateRulesQueryHandler() queries.GetStateRulesQueryHandler {
	return queries.NewGetStateRulesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllCarriersQueryHandler() queries.GetAllCarriersQueryHandler {
	return queries.NewGetAllCarriersQueryHandler(c.gormDB)
}

// JobManager is created once; the HTTP sync route shares its guards.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	if c.jobManager == nil {
		sink := alerts.NewWebhookSink(c.config.AlertWebhookURL, c.config.ERPRequestTimeout, c.logger)
		c.jobManager = jobs.NewJobManager(c.CreateSyncSalesCommandHandler(), sink, jobs.Settings{
			TodaySchedule:     c.config.SyncTodaySchedule,
			YesterdaySchedule: c.config.SyncYesterdaySchedule,
			Location:          c.config.SyncLocation,
		}, c.logger)
	}
	return c.jobManager
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateMovement:  c.CreateCreateMovementCommandHandler(),
		RateOrder:       c.CreateRateOrderCommandHandler(),
		AddRule:         c.CreateAddRuleCommandHandler(),
		DeleteRule:      c.CreateDeleteRuleCommandHandler(),
		SetCarrierFlags: c.CreateSetCarrierFlagsCommandHandler(),
		GetOrderState:   c.CreateGetOrderStateQueryHandler(),
		GetStateRules:   c.CreateGetStateRulesQueryHandler(),
		GetAllCarriers:  c.CreateGetAllCarriersQueryHandler(),
		Sync:            c.JobManager(),
	}, c.config.SyncLocation, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRuleUoWFactory func() commands.RuleUoW

func (f FuncRuleUoWFactory) Create() commands.RuleUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

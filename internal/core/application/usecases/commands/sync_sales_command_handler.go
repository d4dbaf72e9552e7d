package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ordertracking/internal/core/domain/model/carrier"
	"ordertracking/internal/core/domain/model/lifecycle"
	"ordertracking/internal/core/domain/model/order"
	"ordertracking/internal/core/domain/model/sales"
	"ordertracking/internal/core/domain/services"
	"ordertracking/internal/core/ports"
	"ordertracking/internal/pkg/errs"
)

const defaultFetchTimeout = 10 * time.Minute

// SyncSettings configures the reconciliation run.
type SyncSettings struct {
	Filter           sales.Filter
	SystemOperatorID int64

	// FetchTimeout bounds the whole multi-lot fetch.
	FetchTimeout time.Duration
}

// SyncSalesCommandHandler reconciles ERP sales into orders.
//
// A run fetches every lot of the day, filters the records, upserts carriers,
// keeps the records of tracked carriers, deduplicates them by canonical order
// id and then reconciles each order in its own transaction. Failures while
// talking to the ERP or while running the bulk steps abort the run; failures
// of a single order are collected in the report.
type SyncSalesCommandHandler struct {
	uowFactory UoWFactory
	source     ports.SalesSource
	validator  services.TransitionValidator
	settings   SyncSettings
	logger     *slog.Logger
	now        func() time.Time
}

func NewSyncSalesCommandHandler(
	uowFactory UoWFactory,
	source ports.SalesSource,
	validator services.TransitionValidator,
	settings SyncSettings,
	logger *slog.Logger,
) SyncSalesCommandHandler {
	if settings.FetchTimeout <= 0 {
		settings.FetchTimeout = defaultFetchTimeout
	}
	return SyncSalesCommandHandler{
		uowFactory: uowFactory,
		source:     source,
		validator:  validator,
		settings:   settings,
		logger:     logger.With("component", "sales_sync"),
		now:        time.Now,
	}
}

// candidate is a filtered record with its canonical order id.
type candidate struct {
	orderID string
	record  sales.Record
}

func (h *SyncSalesCommandHandler) Handle(ctx context.Context, cmd SyncSalesCommand) (SyncReport, error) {
	if err := cmd.Validate(); err != nil {
		return SyncReport{}, err
	}

	started := h.now()
	report := SyncReport{Date: cmd.Date()}

	records, err := h.fetchAll(ctx, cmd.Date(), &report)
	if err != nil {
		return report, err
	}

	candidates := h.filter(records, &report)

	carriers, err := h.upsertCarriers(ctx, candidates, &report)
	if err != nil {
		return report, err
	}

	candidates = h.tracked(candidates, carriers, &report)
	candidates = deduplicate(candidates, &report)

	if len(candidates) > 0 {
		if err = h.reconcileAll(ctx, candidates, &report); err != nil {
			return report, err
		}
	}

	report.Duration = h.now().Sub(started)
	h.logger.Info("sales sync finished",
		"date", cmd.Date().Format(time.DateOnly),
		"lots", report.Lots,
		"fetched", report.Fetched,
		"accepted", report.Accepted,
		"malformed", report.MalformedManifests,
		"carriers_created", report.CarriersCreated,
		"carriers_updated", report.CarriersUpdated,
		"dropped_untracked", report.DroppedUntracked,
		"duplicates", report.DuplicatesRemoved,
		"orders_created", report.OrdersCreated,
		"orders_settled", report.OrdersSettled,
		"movements", report.MovementsCreated,
		"settlement_movements", report.SettlementMovementsCreated,
		"errors", len(report.Errors),
		"duration", report.Duration,
	)

	return report, nil
}

// fetchAll logs in and pages through lots 1..total under the fetch timeout.
func (h *SyncSalesCommandHandler) fetchAll(ctx context.Context, date time.Time, report *SyncReport) ([]sales.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, h.settings.FetchTimeout)
	defer cancel()

	if err := h.source.Login(ctx); err != nil {
		return nil, err
	}

	first, err := h.source.FetchSalesLot(ctx, date, 1)
	if err != nil {
		return nil, err
	}

	total := first.TotalLots()
	records := make([]sales.Record, 0, len(first.Records)*total)
	records = append(records, first.Records...)
	h.logger.Debug("sales lot fetched", "lot", 1, "total", total, "records", len(first.Records))

	for lot := 2; lot <= total; lot++ {
		next, err := h.source.FetchSalesLot(ctx, date, lot)
		if err != nil {
			return nil, fmt.Errorf("lot %d of %d: %w", lot, total, err)
		}
		records = append(records, next.Records...)
		h.logger.Debug("sales lot fetched", "lot", lot, "total", total, "records", len(next.Records))
	}

	report.Lots = total
	report.Fetched = len(records)
	return records, nil
}

// filter drops records that are not trackable deliveries or whose manifest is
// malformed.
func (h *SyncSalesCommandHandler) filter(records []sales.Record, report *SyncReport) []candidate {
	candidates := make([]candidate, 0, len(records))
	for _, r := range records {
		if !h.settings.Filter.Accepts(r) {
			continue
		}
		report.Accepted++

		id, err := order.IDFromManifest(r.Manifest)
		if err != nil {
			report.MalformedManifests++
			h.logger.Debug("malformed manifest skipped", "manifest", r.Manifest)
			continue
		}
		candidates = append(candidates, candidate{orderID: id, record: r})
	}
	return candidates
}

// upsertCarriers creates unseen carriers and renames drifted ones in a single
// transaction, starting from one bulk load of every carrier.
func (h *SyncSalesCommandHandler) upsertCarriers(
	ctx context.Context,
	candidates []candidate,
	report *SyncReport,
) (map[int64]*carrier.Carrier, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.NewStorageError("begin carrier upsert", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	carrierRepo := uow.CarrierRepository()
	all, err := carrierRepo.GetAll(ctx)
	if err != nil {
		return nil, errs.NewStorageError("load carriers", err)
	}

	byID := make(map[int64]*carrier.Carrier, len(all))
	for _, c := range all {
		byID[c.ID()] = c
	}

	seen := make(map[int64]struct{})
	for _, cand := range candidates {
		id := cand.record.CarrierID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		name := strings.TrimSpace(cand.record.CarrierName)

		existing, ok := byID[id]
		if !ok {
			if name == "" {
				name = fmt.Sprintf("Carrier %d", id)
			}
			c, err := carrier.NewCarrier(id, name)
			if err != nil {
				return nil, err
			}
			if err = carrierRepo.Add(ctx, c); err != nil {
				return nil, errs.NewStorageError("create carrier", err)
			}
			byID[id] = c
			report.CarriersCreated++
			continue
		}

		if name == "" {
			continue
		}
		renamed, err := existing.Rename(name)
		if err != nil {
			return nil, err
		}
		if renamed {
			if err = carrierRepo.Update(ctx, existing); err != nil {
				return nil, errs.NewStorageError("rename carrier", err)
			}
			report.CarriersUpdated++
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.NewStorageError("commit carrier upsert", err)
	}
	return byID, nil
}

func (h *SyncSalesCommandHandler) tracked(
	candidates []candidate,
	carriers map[int64]*carrier.Carrier,
	report *SyncReport,
) []candidate {
	kept := candidates[:0]
	for _, cand := range candidates {
		c, ok := carriers[cand.record.CarrierID]
		if !ok || !c.IsTracking() {
			report.DroppedUntracked++
			continue
		}
		kept = append(kept, cand)
	}
	return kept
}

// deduplicate keeps the first record of every canonical order id.
func deduplicate(candidates []candidate, report *SyncReport) []candidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, cand := range candidates {
		if _, ok := seen[cand.orderID]; ok {
			report.DuplicatesRemoved++
			continue
		}
		seen[cand.orderID] = struct{}{}
		unique = append(unique, cand)
	}
	return unique
}

func (h *SyncSalesCommandHandler) reconcileAll(ctx context.Context, candidates []candidate, report *SyncReport) error {
	ids := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		ids = append(ids, cand.orderID)
	}

	reader := h.uowFactory.Create()
	existing, err := reader.OrderRepository().FindExisting(ctx, ids)
	if err != nil {
		return errs.NewStorageError("load existing orders", err)
	}
	ingestRules, err := reader.RuleRepository().GetByTarget(ctx, lifecycle.Pending)
	if err != nil {
		return errs.NewStorageError("load ingestion rules", err)
	}

	for _, cand := range candidates {
		var itemErr error
		if o, ok := existing[cand.orderID]; ok {
			itemErr = h.settleExisting(ctx, o, cand.record, report)
		} else {
			itemErr = h.ingest(ctx, cand, ingestRules, report)
		}
		if errors.Is(itemErr, errs.ErrStorage) {
			return fmt.Errorf("order %s: %w", cand.orderID, itemErr)
		}
		if itemErr != nil {
			report.Errors = append(report.Errors, SyncItemError{OrderID: cand.orderID, Err: itemErr})
			h.logger.Warn("order reconciliation failed", "order_id", cand.orderID, "error", itemErr)
		}
	}
	return nil
}

// ingest creates the order with INGEST -> PENDING and, when the sale is already
// settled, PENDING -> SETTLEMENT in the same transaction.
func (h *SyncSalesCommandHandler) ingest(
	ctx context.Context,
	cand candidate,
	rules lifecycle.Rules,
	report *SyncReport,
) error {
	at := h.now()
	o, err := order.NewOrder(cand.orderID, cand.record.CarrierID, at)
	if err != nil {
		return err
	}

	if err = h.validator.Validate(o, lifecycle.Ingest, lifecycle.Pending, rules); err != nil {
		return err
	}
	if _, err = o.Record(lifecycle.Ingest, lifecycle.Pending, h.settings.SystemOperatorID, at); err != nil {
		return err
	}

	settled := cand.record.HasSettlement()
	if settled {
		if _, err = o.Record(lifecycle.Pending, lifecycle.Settlement, h.settings.SystemOperatorID, at); err != nil {
			return err
		}
	}

	if err = h.persist(ctx, o, true); err != nil {
		return err
	}

	report.OrdersCreated++
	report.MovementsCreated++
	if settled {
		report.OrdersSettled++
		report.MovementsCreated++
		report.SettlementMovementsCreated++
	}
	return nil
}

// settleExisting appends <last state> -> SETTLEMENT when the ERP reports the
// sale settled and the order is not settled yet.
func (h *SyncSalesCommandHandler) settleExisting(
	ctx context.Context,
	o *order.Order,
	record sales.Record,
	report *SyncReport,
) error {
	if o.IsSettled() || !record.HasSettlement() {
		return nil
	}

	last := o.LastState()
	if last == lifecycle.Unknown {
		return errors.New("order has no movement history")
	}

	if _, err := o.Record(last, lifecycle.Settlement, h.settings.SystemOperatorID, h.now()); err != nil {
		return err
	}

	if err := h.persist(ctx, o, false); err != nil {
		return err
	}

	report.OrdersSettled++
	report.MovementsCreated++
	report.SettlementMovementsCreated++
	return nil
}

// persist writes o in its own transaction. Conflicts and missing orders stay
// attached to the record; any other failure is a StorageError that ends the run.
func (h *SyncSalesCommandHandler) persist(ctx context.Context, o *order.Order, isNew bool) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.NewStorageError("begin order write", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	operation := "update order"
	var err error
	if isNew {
		operation = "create order"
		err = repo.Add(ctx, o)
	} else {
		err = repo.Update(ctx, o)
	}
	if err != nil {
		if errors.Is(err, errs.ErrConflict) || errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrStorage) {
			return err
		}
		return errs.NewStorageError(operation, err)
	}

	if err = uow.Commit(ctx); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return err
		}
		return errs.NewStorageError("commit order write", err)
	}
	return nil
}

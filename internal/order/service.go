package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salesdesk-be/internal/apperr"
	"salesdesk-be/internal/events"
	"salesdesk-be/internal/logger"
	"salesdesk-be/internal/metrics"
	"salesdesk-be/internal/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100

	maxNumberAttempts = 3
	eventProducer     = "salesdesk-orders"
)

// Service is the order workflow engine. Every mutation validates all lines
// before touching stock and undoes its own stock moves when a later step
// fails.
type Service interface {
	CreateOrder(ctx context.Context, input CreateInput) (*Order, error)
	UpdateOrder(ctx context.Context, id string, input UpdateInput) (*Order, error)
	DeleteOrder(ctx context.Context, id string) error
	SetOrderStatus(ctx context.Context, id string, status Status) (*Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) (*ListResult, error)
}

type service struct {
	uow     UnitOfWork
	repo    Repository
	pub     events.Publisher
	metrics *metrics.Metrics

	newID     func() string
	newNumber func(time.Time) string
	now       func() time.Time
}

func NewService(uow UnitOfWork, repo Repository, pub events.Publisher, m *metrics.Metrics) Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &service{
		uow:       uow,
		repo:      repo,
		pub:       pub,
		metrics:   m,
		newID:     uuid.NewString,
		newNumber: GenerateOrderNumber,
		now:       time.Now,
	}
}

func (s *service) CreateOrder(ctx context.Context, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
	)

	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	if name == "" || phone == "" || len(input.Items) == 0 {
		return nil, apperr.Validation("Customer name, phone, and at least one product are required")
	}

	status := StatusNew
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperr.Validation("Invalid order status: %s", *input.Status)
		}
		status = *input.Status
	}

	o := &Order{
		ID:              s.newID(),
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: trimmed(input.CustomerAddress),
		Notes:           trimmed(input.Notes),
		Status:          status,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, catalog Catalog, ledger Repository) error {
		lines, total, err := buildLines(ctx, catalog, input.Items, nil)
		if err != nil {
			return err
		}

		if err := s.reserve(ctx, catalog, lines); err != nil {
			return err
		}

		o.Items = lines
		o.TotalAmount = total

		if err := s.insertWithFreshNumber(ctx, ledger, o); err != nil {
			return withCompensation(err, s.undoReserve(ctx, catalog, lines, "create"))
		}
		return nil
	})
	if err != nil {
		s.observeRejection(err)
		logFailure(log, "failed to create order", err)
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.TotalAmount.StringFixed(2)),
	)
	s.metrics.OrderCreated()

	created := s.reload(ctx, o)
	s.publish(ctx, events.OrderCreated, created, "", true)
	return created, nil
}

func (s *service) insertWithFreshNumber(ctx context.Context, ledger Repository, o *Order) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		o.OrderNumber = s.newNumber(s.now())
		err = ledger.Insert(ctx, o)
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			return err
		}
		logger.FromCtx(ctx).Warn("order number collision, retrying",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt+1),
		)
	}
	return fmt.Errorf("allocate order number: %w", err)
}

func (s *service) UpdateOrder(ctx context.Context, id string, input UpdateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrder"),
		zap.String("order_id", id),
	)

	if err := validatePatch(input); err != nil {
		return nil, err
	}

	var previous Status
	err := s.uow.Do(ctx, func(ctx context.Context, catalog Catalog, ledger Repository) error {
		current, err := ledger.GetByID(ctx, id)
		if err != nil {
			return mapLedgerError(err, id)
		}
		previous = current.Status

		applyPatch(current, input)

		if input.Items == nil {
			return ledger.Update(ctx, current, false)
		}

		oldLines := current.Items

		// Old reservations go back first so the new lines are checked
		// against the stock the order would actually have available.
		if err := s.restore(ctx, catalog, oldLines, "update"); err != nil {
			return err
		}

		keep := make(map[string]bool, len(oldLines))
		for _, l := range oldLines {
			keep[l.ProductID] = true
		}

		lines, total, err := buildLines(ctx, catalog, input.Items, keep)
		if err != nil {
			return withCompensation(err, s.rededuct(ctx, catalog, oldLines, "update"))
		}

		if err := s.reserve(ctx, catalog, lines); err != nil {
			return withCompensation(err, s.rededuct(ctx, catalog, oldLines, "update"))
		}

		current.Items = lines
		current.TotalAmount = total

		if err := ledger.Update(ctx, current, true); err != nil {
			return withCompensation(
				mapLedgerError(err, id),
				errors.Join(
					s.undoReserve(ctx, catalog, lines, "update"),
					s.rededuct(ctx, catalog, oldLines, "update"),
				),
			)
		}
		return nil
	})
	if err != nil {
		s.observeRejection(err)
		logFailure(log, "failed to update order", err)
		return nil, err
	}

	log.Info("order updated", zap.Bool("items_replaced", input.Items != nil))

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLedgerError(err, id)
	}
	s.publish(ctx, events.OrderUpdated, updated, previous, input.Items != nil)
	return updated, nil
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrder"),
		zap.String("order_id", id),
	)

	var deleted *Order
	restored := false
	err := s.uow.Do(ctx, func(ctx context.Context, catalog Catalog, ledger Repository) error {
		current, err := ledger.GetByID(ctx, id)
		if err != nil {
			return mapLedgerError(err, id)
		}
		deleted = current

		if !current.Status.IsTerminal() {
			if err := s.restore(ctx, catalog, current.Items, "delete"); err != nil {
				return err
			}
			restored = true
		}

		if err := ledger.Delete(ctx, id); err != nil {
			err = mapLedgerError(err, id)
			if restored {
				return withCompensation(err, s.rededuct(ctx, catalog, current.Items, "delete"))
			}
			return err
		}
		return nil
	})
	if err != nil {
		logFailure(log, "failed to delete order", err)
		return err
	}

	log.Info("order deleted", zap.Bool("stock_restored", restored))
	s.publish(ctx, events.OrderDeleted, deleted, "", restored)
	return nil
}

func (s *service) SetOrderStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid order status: %s", status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLedgerError(err, id)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, mapLedgerError(err, id)
	}

	logger.FromCtx(ctx).Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)),
	)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLedgerError(err, id)
	}
	s.publish(ctx, events.OrderStatusChanged, updated, current.Status, false)
	return updated, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapLedgerError(err, id)
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperr.Validation("Invalid order status: %s", *filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	} else if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	return &ListResult{Orders: orders, Total: total, Limit: filter.Limit, Skip: filter.Skip}, nil
}

// buildLines validates every requested line against the catalog and prices
// it. Nothing is written. Product ids in allowInactive skip the active check.
func buildLines(ctx context.Context, catalog Catalog, items []ItemInput, allowInactive map[string]bool) ([]LineItem, decimal.Decimal, error) {
	lines := make([]LineItem, 0, len(items))
	total := decimal.Zero
	requested := make(map[string]int, len(items))

	for _, item := range items {
		id := strings.TrimSpace(item.ProductID)
		if id == "" {
			return nil, decimal.Zero, apperr.Validation("Product id is required")
		}

		p, err := catalog.GetByID(ctx, id)
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, decimal.Zero, apperr.NotFound("Product", id)
		}
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("load product %s: %w", id, err)
		}

		if !p.Active && !allowInactive[id] {
			return nil, decimal.Zero, apperr.Validation("Product %s is not active", p.Name)
		}
		if item.Quantity <= 0 {
			return nil, decimal.Zero, apperr.Validation("Product quantity must be greater than 0")
		}

		// repeated lines for one product draw from the same stock
		available := p.Stock - requested[id]
		if available < item.Quantity {
			return nil, decimal.Zero, &apperr.InsufficientStockError{
				ProductID:   id,
				ProductName: p.Name,
				Available:   available,
				Requested:   item.Quantity,
			}
		}
		requested[id] += item.Quantity

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, LineItem{
			ProductID: id,
			Quantity:  item.Quantity,
			Price:     p.Price,
		})
	}

	return lines, total, nil
}

// reserve takes stock for every line. If one decrement is refused, the ones
// already applied are given back before returning.
func (s *service) reserve(ctx context.Context, catalog Catalog, lines []LineItem) error {
	for i, l := range lines {
		err := catalog.AdjustStock(ctx, l.ProductID, -l.Quantity)
		if err == nil {
			continue
		}

		undo := s.undoReserve(ctx, catalog, lines[:i], "reserve")

		if errors.Is(err, product.ErrInsufficientStock) {
			err = s.stockError(ctx, catalog, l)
		} else if errors.Is(err, product.ErrProductNotFound) {
			err = apperr.NotFound("Product", l.ProductID)
		} else {
			err = fmt.Errorf("reserve stock %s: %w", l.ProductID, err)
		}
		return withCompensation(err, undo)
	}
	return nil
}

func (s *service) stockError(ctx context.Context, catalog Catalog, l LineItem) error {
	stockErr := &apperr.InsufficientStockError{
		ProductID:   l.ProductID,
		ProductName: l.ProductID,
		Requested:   l.Quantity,
	}
	if p, err := catalog.GetByID(ctx, l.ProductID); err == nil {
		stockErr.ProductName = p.Name
		stockErr.Available = p.Stock
	}
	return stockErr
}

// restore gives stock back for lines. Lines whose product no longer exists
// are skipped. Other failures are logged and returned joined.
func (s *service) restore(ctx context.Context, catalog Catalog, lines []LineItem, op string) error {
	return s.adjustLines(ctx, catalog, lines, 1, op)
}

// undoReserve gives back stock taken by reserve after a later step failed.
func (s *service) undoReserve(ctx context.Context, catalog Catalog, lines []LineItem, op string) error {
	if len(lines) == 0 {
		return nil
	}
	s.metrics.Compensated(op)
	return s.adjustLines(ctx, catalog, lines, 1, op)
}

// rededuct takes back stock that restore gave out after a later step failed.
func (s *service) rededuct(ctx context.Context, catalog Catalog, lines []LineItem, op string) error {
	if len(lines) == 0 {
		return nil
	}
	s.metrics.Compensated(op)
	return s.adjustLines(ctx, catalog, lines, -1, op)
}

// withCompensation keeps err as the primary cause and attaches any
// compensation failure next to it.
func withCompensation(err, compErr error) error {
	if compErr == nil {
		return err
	}
	return errors.Join(err, compErr)
}

func (s *service) adjustLines(ctx context.Context, catalog Catalog, lines []LineItem, sign int, op string) error {
	var errs []error
	for _, l := range lines {
		err := catalog.AdjustStock(ctx, l.ProductID, sign*l.Quantity)
		if err == nil || errors.Is(err, product.ErrProductNotFound) {
			continue
		}
		logger.FromCtx(ctx).Error("stock compensation failed",
			zap.String("operation", op),
			zap.String("product_id", l.ProductID),
			zap.Int("delta", sign*l.Quantity),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("compensate stock %s: %w", l.ProductID, err))
	}
	return errors.Join(errs...)
}

func (s *service) reload(ctx context.Context, o *Order) *Order {
	fresh, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to reload order", zap.String("order_id", o.ID), zap.Error(err))
		return o
	}
	return fresh
}

func (s *service) observeRejection(err error) {
	var stockErr *apperr.InsufficientStockError
	if errors.As(err, &stockErr) {
		s.metrics.StockRejected()
	}
}

func (s *service) publish(ctx context.Context, eventType string, o *Order, previous Status, withItems bool) {
	if o == nil {
		return
	}

	payload := events.OrderPayload{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PreviousState: string(previous),
		TotalAmount:   o.TotalAmount.StringFixed(2),
	}
	if withItems {
		for _, l := range o.Items {
			payload.Items = append(payload.Items, events.ItemQty{ProductID: l.ProductID, Qty: l.Quantity})
		}
		payload.StockRestored = eventType == events.OrderDeleted
	}

	env, err := events.NewEnvelope(eventType, eventProducer, o.ID, payload, s.now())
	if err == nil {
		err = s.pub.Publish(ctx, o.ID, env)
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func validatePatch(input UpdateInput) error {
	if input.CustomerName != nil && strings.TrimSpace(*input.CustomerName) == "" {
		return apperr.Validation("Customer name cannot be empty")
	}
	if input.CustomerPhone != nil && strings.TrimSpace(*input.CustomerPhone) == "" {
		return apperr.Validation("Customer phone cannot be empty")
	}
	if input.Items != nil && len(input.Items) == 0 {
		return apperr.Validation("At least one product is required")
	}
	if input.Status != nil && !input.Status.Valid() {
		return apperr.Validation("Invalid order status: %s", *input.Status)
	}
	return nil
}

func applyPatch(o *Order, input UpdateInput) {
	if input.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		o.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.CustomerAddress != nil {
		o.CustomerAddress = trimmed(input.CustomerAddress)
	}
	if input.Notes != nil {
		o.Notes = trimmed(input.Notes)
	}
	if input.Status != nil {
		o.Status = *input.Status
	}
}

// trimmed returns nil for nil or blank strings.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func mapLedgerError(err error, id string) error {
	if errors.Is(err, ErrOrderNotFound) {
		return apperr.NotFound("Order", id)
	}
	return err
}

func logFailure(log *zap.Logger, msg string, err error) {
	var (
		vErr     *apperr.ValidationError
		nfErr    *apperr.NotFoundError
		stockErr *apperr.InsufficientStockError
	)
	if errors.As(err, &vErr) || errors.As(err, &nfErr) || errors.As(err, &stockErr) {
		log.Info(msg, zap.Error(err))
		return
	}
	log.Error(msg, zap.Error(err))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/enum"
	"github.com/TechLionDev/InviStar/internal/logging"
	"github.com/TechLionDev/InviStar/internal/money"
	"github.com/TechLionDev/InviStar/internal/pricing"
	"github.com/TechLionDev/InviStar/internal/reconcile"
	"github.com/TechLionDev/InviStar/internal/sanitize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxOrderNumberRetries  = 3
	orderNumberConstraint  = "orders_created_by_number_key"
	modifierDecimalPlaces  = 4
	dateOnlyLayout         = "2006-01-02"
	salesOrderNumberPrefix = "SO"
	purchaseNumberPrefix   = "PO"
)

// Errors returned by the order service.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidOrderType     = errors.New("invalid order type")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 2147483647")
	ErrInvalidProductID     = errors.New("invalid product_id")
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidBusinessID    = errors.New("invalid business_id")
	ErrBusinessNotFound     = errors.New("business not found")
	ErrInvalidPricingMode   = errors.New("invalid pricing mode")
	ErrInvalidDiscountValue = errors.New("invalid discount value")
	ErrInvalidTaxValue      = errors.New("invalid tax value")
	ErrInvalidCustomPrice   = errors.New("invalid custom_price")
	ErrInvalidDate          = errors.New("invalid date")
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create and edit orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context, arg database.GetNextOrderNumberParams) (int32, error)
	GetBusiness(ctx context.Context, arg database.GetBusinessParams) (database.Business, error)
	GetBusinessIncludingArchived(ctx context.Context, arg database.GetBusinessIncludingArchivedParams) (database.Business, error)
	GetProduct(ctx context.Context, arg database.GetProductParams) (database.Product, error)
	GetProductIncludingArchived(ctx context.Context, arg database.GetProductIncludingArchivedParams) (database.Product, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	ArchiveOrder(ctx context.Context, arg database.ArchiveOrderParams) (uuid.UUID, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderItemsByOrderRow, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	UpdateOrderItem(ctx context.Context, arg database.UpdateOrderItemParams) (database.OrderItem, error)
	DeleteOrderItem(ctx context.Context, arg database.DeleteOrderItemParams) error
	DetachOrderItem(ctx context.Context, arg database.DetachOrderItemParams) error
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// EventPublisher receives order lifecycle events after commit.
// Satisfied by *ws.Hub.
type EventPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, eventType string, payload any)
}

// OrderRequest is the input for creating, updating or previewing an order.
// Numeric fields are decimal strings; empty means zero.
type OrderRequest struct {
	OwnerID       uuid.UUID
	Number        string
	Type          string
	Status        string
	BusinessID    string
	Date          string // RFC3339 or YYYY-MM-DD; empty = now
	Notes         string
	DiscountMode  string
	DiscountValue string
	TaxMode       string
	TaxValue      string
	Items         []OrderItemRequest
}

// OrderItemRequest is a single line item in the draft.
type OrderItemRequest struct {
	ProductID     string
	Quantity      int64
	OverridePrice bool
	CustomPrice   string
	TaxExempt     bool
}

// OrderResult is the persisted order with its current line items and the
// pricing snapshot that was stored.
type OrderResult struct {
	Order   database.Order
	Items   []database.ListOrderItemsByOrderRow
	Pricing pricing.Result
}

// UpdateResult adds the reconciliation counts to an OrderResult.
type UpdateResult struct {
	OrderResult
	Added     int
	Changed   int
	Unchanged int
	Removed   int
}

// PricedLine is a line item with its catalog data and derived prices.
type PricedLine struct {
	ProductID      uuid.UUID
	ProductName    string
	ProductSku     string
	Quantity       int64
	UnitPrice      decimal.Decimal
	EffectivePrice decimal.Decimal
	ExtendedPrice  decimal.Decimal
	OverridePrice  bool
	TaxExempt      bool
}

// Preview is the result of pricing a draft without persisting it.
type Preview struct {
	Lines   []PricedLine
	Pricing pricing.Result
}

// OrderService handles order business logic.
type OrderService struct {
	pool           TxBeginner
	newStore       NewOrderStore
	events         EventPublisher
	removedPolicy  reconcile.RemovedPolicy
	defaultTaxRate decimal.Decimal
	now            func() time.Time
}

// Option configures an OrderService.
type Option func(*OrderService)

// WithEvents publishes order events to p after each commit.
func WithEvents(p EventPublisher) Option {
	return func(s *OrderService) { s.events = p }
}

// WithRemovedPolicy sets what UpdateOrder does with line items that are no
// longer in the draft.
func WithRemovedPolicy(p reconcile.RemovedPolicy) Option {
	return func(s *OrderService) { s.removedPolicy = p }
}

// WithDefaultTaxRate sets the percentage applied when a new order does not
// specify a tax value.
func WithDefaultTaxRate(rate decimal.Decimal) Option {
	return func(s *OrderService) { s.defaultTaxRate = rate }
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, opts ...Option) *OrderService {
	s := &OrderService{
		pool:          pool,
		newStore:      newStore,
		removedPolicy: reconcile.DeleteRemoved,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// parsedOrder holds the validated, typed form of an OrderRequest.
type parsedOrder struct {
	businessID uuid.UUID
	date       time.Time
	status     string
	notes      string
	mods       pricing.Modifiers
	items      []parsedItem
}

type parsedItem struct {
	productID   uuid.UUID
	quantity    int64
	override    bool
	customPrice *decimal.Decimal
	taxExempt   bool
}

// CreateOrder validates the draft, prices it against the catalog and
// persists the order with its line items atomically. When no number is
// supplied one is generated; generation is retried on unique conflicts.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if !enum.IsOrderType(req.Type) {
		return nil, ErrInvalidOrderType
	}
	p, err := s.parse(req, true)
	if err != nil {
		return nil, err
	}

	attempts := maxOrderNumberRetries
	if req.Number != "" {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := s.createOrderTx(ctx, req, p)
		if err == nil {
			s.publish(ctx, req.OwnerID, enum.EventOrderCreated, result.Order)
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if req.Number != "" {
		return nil, ErrDuplicateOrderNumber
	}
	return nil, lastErr
}

func (s *OrderService) createOrderTx(ctx context.Context, req OrderRequest, p *parsedOrder) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := s.checkBusiness(ctx, store, req.OwnerID, p.businessID, false); err != nil {
		return nil, err
	}

	lines, err := s.priceLines(ctx, store, req.OwnerID, p.items, nil)
	if err != nil {
		return nil, err
	}
	result := computeLines(lines, p.mods)

	number := req.Number
	if number == "" {
		next, err := store.GetNextOrderNumber(ctx, database.GetNextOrderNumberParams{
			CreatedBy: req.OwnerID,
			Type:      req.Type,
		})
		if err != nil {
			return nil, fmt.Errorf("get next order number: %w", err)
		}
		number = formatOrderNumber(req.Type, next)
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		Number:        number,
		Date:          p.date,
		BusinessID:    p.businessID,
		Subtotal:      money.ToNumeric(result.Subtotal),
		Discount:      money.ToNumeric(result.Discount),
		Tax:           money.ToNumeric(result.Tax),
		Total:         money.ToNumeric(result.Total),
		DiscountMode:  string(p.mods.DiscountMode),
		DiscountValue: money.ToNumericPlaces(modifierValue(p.mods.DiscountMode, p.mods.DiscountPercent, p.mods.ManualDiscount), modifierDecimalPlaces),
		TaxMode:       string(p.mods.TaxMode),
		TaxValue:      money.ToNumericPlaces(modifierValue(p.mods.TaxMode, p.mods.TaxRatePercent, p.mods.ManualTax), modifierDecimalPlaces),
		Status:        p.status,
		Type:          req.Type,
		Notes:         p.notes,
		CreatedBy:     req.OwnerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.ListOrderItemsByOrderRow, 0, len(lines))
	for _, line := range lines {
		item, err := store.CreateOrderItem(ctx, createItemParams(order.ID, req.OwnerID, line))
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, itemRow(item, line))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: order, Items: items, Pricing: result}, nil
}

// UpdateOrder re-prices an edited draft, reconciles its line items against
// the persisted ones by product and saves everything in one transaction.
// The order type and number are immutable.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req OrderRequest) (*UpdateResult, error) {
	p, err := s.parse(req, false)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	existing, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, CreatedBy: req.OwnerID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	// An archived business or product may stay on an order it is already part of.
	if err := s.checkBusiness(ctx, store, req.OwnerID, p.businessID, p.businessID == existing.BusinessID); err != nil {
		return nil, err
	}

	persisted, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	onOrder := make(map[uuid.UUID]bool, len(persisted))
	for _, it := range persisted {
		onOrder[it.ProductID] = true
	}

	lines, err := s.priceLines(ctx, store, req.OwnerID, p.items, onOrder)
	if err != nil {
		return nil, err
	}
	result := computeLines(lines, p.mods)

	plan := reconcile.Diff(toPersisted(persisted), toDrafts(lines), s.removedPolicy)
	if plan.IsNoop() {
		logging.FromContext(ctx).Debug("order items unchanged", zap.Stringer("order_id", orderID))
	}

	byProduct := make(map[uuid.UUID]PricedLine, len(lines))
	for _, l := range lines {
		byProduct[l.ProductID] = l
	}

	for _, c := range plan.Changed {
		line := byProduct[c.Draft.ProductID]
		if _, err := store.UpdateOrderItem(ctx, database.UpdateOrderItemParams{
			ID:            c.ID,
			OrderID:       orderID,
			Quantity:      int32(c.Draft.Quantity),
			UnitPrice:     money.ToNumeric(line.UnitPrice),
			Price:         money.ToNumeric(c.Draft.Price),
			OverridePrice: c.Draft.Override,
			TaxExempt:     c.Draft.TaxExempt,
		}); err != nil {
			return nil, fmt.Errorf("update order item %s: %w", c.ID, err)
		}
	}
	for _, d := range plan.Added {
		line := byProduct[d.ProductID]
		line.Quantity = d.Quantity
		if _, err := store.CreateOrderItem(ctx, createItemParams(orderID, req.OwnerID, line)); err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
	}
	for _, id := range plan.DeleteIDs() {
		if err := store.DeleteOrderItem(ctx, database.DeleteOrderItemParams{ID: id, OrderID: orderID}); err != nil {
			return nil, fmt.Errorf("delete order item %s: %w", id, err)
		}
	}
	for _, id := range plan.DetachIDs() {
		if err := store.DetachOrderItem(ctx, database.DetachOrderItemParams{ID: id, OrderID: orderID}); err != nil {
			return nil, fmt.Errorf("detach order item %s: %w", id, err)
		}
	}

	date := p.date
	if req.Date == "" {
		date = existing.Date
	}
	order, err := store.UpdateOrder(ctx, database.UpdateOrderParams{
		ID:            orderID,
		CreatedBy:     req.OwnerID,
		Date:          date,
		BusinessID:    p.businessID,
		Subtotal:      money.ToNumeric(result.Subtotal),
		Discount:      money.ToNumeric(result.Discount),
		Tax:           money.ToNumeric(result.Tax),
		Total:         money.ToNumeric(result.Total),
		DiscountMode:  string(p.mods.DiscountMode),
		DiscountValue: money.ToNumericPlaces(modifierValue(p.mods.DiscountMode, p.mods.DiscountPercent, p.mods.ManualDiscount), modifierDecimalPlaces),
		TaxMode:       string(p.mods.TaxMode),
		TaxValue:      money.ToNumericPlaces(modifierValue(p.mods.TaxMode, p.mods.TaxRatePercent, p.mods.ManualTax), modifierDecimalPlaces),
		Status:        p.status,
		Notes:         p.notes,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}

	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.publish(ctx, req.OwnerID, enum.EventOrderUpdated, order)

	return &UpdateResult{
		OrderResult: OrderResult{Order: order, Items: items, Pricing: result},
		Added:       len(plan.Added),
		Changed:     len(plan.Changed),
		Unchanged:   len(plan.Unchanged),
		Removed:     len(plan.Removed),
	}, nil
}

// ArchiveOrder soft-deletes an order.
func (s *OrderService) ArchiveOrder(ctx context.Context, ownerID, orderID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := s.newStore(tx).ArchiveOrder(ctx, database.ArchiveOrderParams{ID: orderID, CreatedBy: ownerID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("archive order: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.publish(ctx, ownerID, enum.EventOrderArchived, map[string]string{"id": orderID.String()})
	return nil
}

// PreviewPricing prices a draft against the catalog without persisting it.
// Business and status are not required.
func (s *OrderService) PreviewPricing(ctx context.Context, req OrderRequest) (*Preview, error) {
	mods, err := s.parseModifiers(req, req.TaxValue == "")
	if err != nil {
		return nil, err
	}
	items, err := parseItems(req.Items, true)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	lines, err := s.priceLines(ctx, s.newStore(tx), req.OwnerID, items, nil)
	if err != nil {
		return nil, err
	}
	return &Preview{Lines: lines, Pricing: computeLines(lines, mods)}, nil
}

// --- Helpers ---

func (s *OrderService) parse(req OrderRequest, isCreate bool) (*parsedOrder, error) {
	status := req.Status
	if status == "" {
		status = enum.OrderStatusPaid
	}
	if !enum.IsOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	businessID, err := parseBusinessID(req.BusinessID)
	if err != nil {
		return nil, err
	}

	date := s.now()
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			return nil, err
		}
	}

	mods, err := s.parseModifiers(req, isCreate && req.TaxValue == "")
	if err != nil {
		return nil, err
	}

	items, err := parseItems(req.Items, false)
	if err != nil {
		return nil, err
	}

	return &parsedOrder{
		businessID: businessID,
		date:       date,
		status:     status,
		notes:      sanitize.Text(req.Notes),
		mods:       mods,
		items:      items,
	}, nil
}

func (s *OrderService) parseModifiers(req OrderRequest, useDefaultTax bool) (pricing.Modifiers, error) {
	if req.DiscountMode != "" && !enum.IsPricingMode(req.DiscountMode) {
		return pricing.Modifiers{}, ErrInvalidPricingMode
	}
	if req.TaxMode != "" && !enum.IsPricingMode(req.TaxMode) {
		return pricing.Modifiers{}, ErrInvalidPricingMode
	}

	discount, err := parseAmount(req.DiscountValue)
	if err != nil {
		return pricing.Modifiers{}, ErrInvalidDiscountValue
	}
	tax, err := parseAmount(req.TaxValue)
	if err != nil {
		return pricing.Modifiers{}, ErrInvalidTaxValue
	}

	mods := pricing.Modifiers{
		DiscountMode: pricing.ParseMode(req.DiscountMode),
		TaxMode:      pricing.ParseMode(req.TaxMode),
	}
	if mods.DiscountMode == pricing.Manual {
		mods.ManualDiscount = discount
	} else {
		mods.DiscountPercent = discount
	}
	if mods.TaxMode == pricing.Manual {
		mods.ManualTax = tax
	} else {
		mods.TaxRatePercent = tax
		if useDefaultTax {
			mods.TaxRatePercent = s.defaultTaxRate
		}
	}
	return mods, nil
}

func parseItems(reqItems []OrderItemRequest, allowEmpty bool) ([]parsedItem, error) {
	if len(reqItems) == 0 && !allowEmpty {
		return nil, ErrEmptyItems
	}
	items := make([]parsedItem, 0, len(reqItems))
	seen := make(map[uuid.UUID]int, len(reqItems))
	for i, item := range reqItems {
		if item.Quantity < 1 || item.Quantity > math.MaxInt32 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidProductID)
		}
		pi := parsedItem{
			productID: productID,
			quantity:  item.Quantity,
			override:  item.OverridePrice,
			taxExempt: item.TaxExempt,
		}
		if item.OverridePrice && item.CustomPrice != "" {
			cp, err := parseAmount(item.CustomPrice)
			if err != nil {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidCustomPrice)
			}
			pi.customPrice = &cp
		}

		// Repeated products collapse into the first line; the last entry's price wins.
		if at, ok := seen[productID]; ok {
			pi.quantity += items[at].quantity
			if pi.quantity > math.MaxInt32 {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
			}
			items[at] = pi
			continue
		}
		seen[productID] = len(items)
		items = append(items, pi)
	}
	return items, nil
}

// parseAmount parses a non-negative decimal; empty is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", s)
	}
	return d, nil
}

func parseBusinessID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidBusinessID
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

func (s *OrderService) checkBusiness(ctx context.Context, store OrderStore, ownerID, businessID uuid.UUID, allowArchived bool) error {
	var err error
	if allowArchived {
		_, err = store.GetBusinessIncludingArchived(ctx, database.GetBusinessIncludingArchivedParams{ID: businessID, CreatedBy: ownerID})
	} else {
		_, err = store.GetBusiness(ctx, database.GetBusinessParams{ID: businessID, CreatedBy: ownerID})
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("get business: %w", err)
	}
	return nil
}

// priceLines loads each product's catalog price and derives the line's
// effective and extended prices. Products in onOrder are looked up even
// when archived.
func (s *OrderService) priceLines(ctx context.Context, store OrderStore, ownerID uuid.UUID, items []parsedItem, onOrder map[uuid.UUID]bool) ([]PricedLine, error) {
	lines := make([]PricedLine, 0, len(items))
	for i, item := range items {
		var product database.Product
		var err error
		if onOrder[item.productID] {
			product, err = store.GetProductIncludingArchived(ctx, database.GetProductIncludingArchivedParams{ID: item.productID, CreatedBy: ownerID})
		} else {
			product, err = store.GetProduct(ctx, database.GetProductParams{ID: item.productID, CreatedBy: ownerID})
		}
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrProductNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get product: %w", i, err)
		}

		li := pricing.LineItem{
			UnitPrice:     money.FromNumeric(product.Price),
			Quantity:      item.quantity,
			OverridePrice: item.override,
			CustomPrice:   item.customPrice,
			TaxExempt:     item.taxExempt,
		}
		lines = append(lines, PricedLine{
			ProductID:      product.ID,
			ProductName:    product.Name,
			ProductSku:     product.Sku,
			Quantity:       li.Quantity,
			UnitPrice:      li.UnitPrice,
			EffectivePrice: li.EffectivePrice(),
			ExtendedPrice:  li.ExtendedPrice(),
			OverridePrice:  item.override && item.customPrice != nil,
			TaxExempt:      li.TaxExempt,
		})
	}
	return lines, nil
}

func computeLines(lines []PricedLine, mods pricing.Modifiers) pricing.Result {
	items := make([]pricing.LineItem, len(lines))
	for i, l := range lines {
		price := l.EffectivePrice
		items[i] = pricing.LineItem{
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			OverridePrice: l.OverridePrice,
			CustomPrice:   &price,
			TaxExempt:     l.TaxExempt,
		}
	}
	items, mods = pricing.Sanitize(items, mods)
	return pricing.Compute(items, mods)
}

func modifierValue(mode pricing.Mode, percent, manual decimal.Decimal) decimal.Decimal {
	if mode == pricing.Manual {
		return manual
	}
	return percent
}

func toPersisted(rows []database.ListOrderItemsByOrderRow) []reconcile.Persisted {
	out := make([]reconcile.Persisted, len(rows))
	for i, r := range rows {
		out[i] = reconcile.Persisted{
			ID:        r.ID,
			ProductID: r.ProductID,
			Quantity:  int64(r.Quantity),
			Price:     money.FromNumeric(r.Price),
			TaxExempt: r.TaxExempt,
		}
	}
	return out
}

func toDrafts(lines []PricedLine) []reconcile.Draft {
	out := make([]reconcile.Draft, len(lines))
	for i, l := range lines {
		out[i] = reconcile.Draft{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Price:     l.EffectivePrice,
			Override:  l.OverridePrice,
			TaxExempt: l.TaxExempt,
		}
	}
	return out
}

func createItemParams(orderID, ownerID uuid.UUID, l PricedLine) database.CreateOrderItemParams {
	return database.CreateOrderItemParams{
		OrderID:       orderID,
		ProductID:     l.ProductID,
		Quantity:      int32(l.Quantity),
		UnitPrice:     money.ToNumeric(l.UnitPrice),
		Price:         money.ToNumeric(l.EffectivePrice),
		OverridePrice: l.OverridePrice,
		TaxExempt:     l.TaxExempt,
		CreatedBy:     ownerID,
	}
}

func itemRow(item database.OrderItem, l PricedLine) database.ListOrderItemsByOrderRow {
	return database.ListOrderItemsByOrderRow{
		ID:            item.ID,
		OrderID:       item.OrderID,
		ProductID:     item.ProductID,
		Quantity:      item.Quantity,
		UnitPrice:     item.UnitPrice,
		Price:         item.Price,
		OverridePrice: item.OverridePrice,
		TaxExempt:     item.TaxExempt,
		CreatedBy:     item.CreatedBy,
		Archived:      item.Archived,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		ProductName:   l.ProductName,
		ProductSku:    l.ProductSku,
	}
}

func formatOrderNumber(orderType string, n int32) string {
	prefix := salesOrderNumberPrefix
	if orderType == enum.OrderTypePurchase {
		prefix = purchaseNumberPrefix
	}
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == orderNumberConstraint
	}
	return false
}

func (s *OrderService) publish(ctx context.Context, userID uuid.UUID, eventType string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, userID, eventType, payload)
}

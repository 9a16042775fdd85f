package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/snackhub/api/internal/database"
	"github.com/snackhub/api/internal/enum"
)

// taxRate is the fixed sales tax applied to every order subtotal.
var taxRate = decimal.RequireFromString("0.12")

// Errors returned by the order service.
var (
	ErrEmptyItems          = errors.New("items are required")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrInvalidProductID    = errors.New("invalid product_id")
	ErrProductNotFound     = errors.New("product not found")
	ErrPaymentMethod       = errors.New("payment_method is required")
	ErrInvalidAmountPaid   = errors.New("invalid amount_paid")
	ErrInvalidDiscount     = errors.New("discount must be between 0 and 100")
	ErrInsufficientPayment = errors.New("amount paid is less than order total")
	ErrOrderNotFound       = errors.New("order not found")
	ErrAlreadyCancelled    = errors.New("order is already cancelled")
	ErrOrderStatusChanged  = errors.New("order status changed, please retry")
)

// InsufficientStockError identifies which product was short.
type InsufficientStockError struct {
	ProductName string
	Available   int32
	Requested   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: %d available, %d requested",
		e.ProductName, e.Available, e.Requested)
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to place and cancel orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (database.Product, error)
	AdjustProductStock(ctx context.Context, arg database.AdjustProductStockParams) (database.Product, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderItemsByOrderRow, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// PlaceOrderRequest is the validated input for placing an order. Prices and
// totals are never taken from the caller; they come from the product rows.
type PlaceOrderRequest struct {
	CashierID     uuid.UUID // uuid.Nil for walk-in only orders
	CustomerName  string
	CustomerEmail string
	PaymentMethod string
	Discount      string // percent, "0".."100"
	AmountPaid    string
	Items         []PlaceOrderItemRequest
}

// PlaceOrderItemRequest is a single cart line.
type PlaceOrderItemRequest struct {
	ProductID string
	Quantity  int32
}

// PlacedItem is a persisted order item plus the product name for receipts
// and the confirmation webhook.
type PlacedItem struct {
	Item        database.OrderItem
	ProductName string
}

// PlaceOrderResult is the full created order with items.
type PlaceOrderResult struct {
	Order database.Order
	Items []PlacedItem
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// lockedProduct tracks a row-locked product and how much of its stock this
// order has claimed so far, so repeated lines for the same product cannot
// pass the check against a stale count.
type lockedProduct struct {
	product database.Product
	claimed int32
}

// PlaceOrder validates the cart, computes totals from authoritative product
// prices, and persists the order atomically: stock check, order header,
// items, and stock decrement all happen in one transaction with the product
// rows locked for the duration.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if req.PaymentMethod == "" {
		return nil, ErrPaymentMethod
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	amountPaid, err := decimal.NewFromString(req.AmountPaid)
	if err != nil || amountPaid.IsNegative() {
		return nil, ErrInvalidAmountPaid
	}

	discount := decimal.Zero
	if req.Discount != "" {
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil {
			return nil, ErrInvalidDiscount
		}
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidDiscount
	}

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		if _, err := uuid.Parse(item.ProductID); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidProductID)
		}
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Lock products, validate stock, freeze prices ---
	locked := make(map[uuid.UUID]*lockedProduct)
	subtotal := decimal.Zero

	type pendingItem struct {
		params      database.CreateOrderItemParams
		productName string
	}
	var items []pendingItem

	for i, item := range req.Items {
		productID := uuid.MustParse(item.ProductID)

		lp, ok := locked[productID]
		if !ok {
			product, err := store.GetProductForUpdate(ctx, productID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("items[%d]: %w", i, ErrProductNotFound)
				}
				return nil, fmt.Errorf("items[%d]: get product: %w", i, err)
			}
			lp = &lockedProduct{product: product}
			locked[productID] = lp
		}

		if lp.product.Quantity-lp.claimed < item.Quantity {
			return nil, &InsufficientStockError{
				ProductName: lp.product.Name,
				Available:   lp.product.Quantity - lp.claimed,
				Requested:   item.Quantity,
			}
		}
		lp.claimed += item.Quantity

		price := numericToDecimal(lp.product.Price)
		lineSubtotal := price.Mul(decimal.NewFromInt32(item.Quantity))
		subtotal = subtotal.Add(lineSubtotal)

		items = append(items, pendingItem{
			params: database.CreateOrderItemParams{
				ProductID: productID,
				Quantity:  item.Quantity,
				Price:     decimalToNumeric(price),
				Subtotal:  decimalToNumeric(lineSubtotal),
			},
			productName: lp.product.Name,
		})
	}

	// --- Totals: subtotal + 12% tax, then percent discount on the sum ---
	tax := subtotal.Mul(taxRate)
	discountAmount := subtotal.Add(tax).Mul(discount).Div(decimal.NewFromInt(100))
	total := subtotal.Add(tax).Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	change := amountPaid.Sub(total)
	if change.IsNegative() {
		return nil, ErrInsufficientPayment
	}

	// --- Insert order header ---
	cashierID := pgtype.UUID{}
	if req.CashierID != uuid.Nil {
		cashierID = pgtype.UUID{Bytes: req.CashierID, Valid: true}
	}
	customerName := pgtype.Text{}
	if req.CustomerName != "" {
		customerName = pgtype.Text{String: req.CustomerName, Valid: true}
	}
	customerEmail := pgtype.Text{}
	if req.CustomerEmail != "" {
		customerEmail = pgtype.Text{String: req.CustomerEmail, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		UserID:        cashierID,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   decimalToNumeric(total),
		AmountPaid:    decimalToNumeric(amountPaid),
		ChangeAmount:  decimalToNumeric(change),
		Discount:      decimalToNumeric(discount),
		Status:        enum.OrderStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert items and decrement stock ---
	var placed []PlacedItem
	for _, pi := range items {
		pi.params.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		placed = append(placed, PlacedItem{Item: item, ProductName: pi.productName})
	}

	for productID, lp := range locked {
		if _, err := store.AdjustProductStock(ctx, database.AdjustProductStockParams{
			Delta: -lp.claimed,
			ID:    productID,
		}); err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &PlaceOrderResult{Order: order, Items: placed}, nil
}

// CancelOrder restores each line's stock and flips the order to cancelled.
// Only a completed order may be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.Status == enum.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	for _, item := range items {
		if _, err := store.AdjustProductStock(ctx, database.AdjustProductStockParams{
			Delta: item.Quantity,
			ID:    item.ProductID,
		}); err != nil {
			return nil, fmt.Errorf("restore stock: %w", err)
		}
	}

	cancelled, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		Status:     enum.OrderStatusCancelled,
		ID:         orderID,
		FromStatus: enum.OrderStatusCompleted,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderStatusChanged
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &cancelled, nil
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

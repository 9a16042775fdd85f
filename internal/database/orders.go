package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, customer_name, customer_email, payment_method,
	total_amount, amount_paid, change_amount, discount, status, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.PaymentMethod,
		&o.TotalAmount, &o.AmountPaid, &o.ChangeAmount, &o.Discount, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const createOrder = `
INSERT INTO orders (user_id, customer_name, customer_email, payment_method,
	total_amount, amount_paid, change_amount, discount, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	UserID        pgtype.UUID
	CustomerName  pgtype.Text
	CustomerEmail pgtype.Text
	PaymentMethod string
	TotalAmount   pgtype.Numeric
	AmountPaid    pgtype.Numeric
	ChangeAmount  pgtype.Numeric
	Discount      pgtype.Numeric
	Status        string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder,
		arg.UserID, arg.CustomerName, arg.CustomerEmail, arg.PaymentMethod,
		arg.TotalAmount, arg.AmountPaid, arg.ChangeAmount, arg.Discount, arg.Status,
	))
}

const createOrderItem = `
INSERT INTO order_items (order_id, product_id, quantity, price, subtotal)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, product_id, quantity, price, subtotal`

type CreateOrderItemParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	Price     pgtype.Numeric
	Subtotal  pgtype.Numeric
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	var i OrderItem
	err := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.ProductID, arg.Quantity, arg.Price, arg.Subtotal,
	).Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.Price, &i.Subtotal)
	return i, err
}

const getOrder = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

// getOrderForUpdate locks the order row so concurrent cancellations
// cannot both observe status = completed.
const getOrderForUpdate = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

const listOrders = `
SELECT o.id, o.user_id, o.customer_name, o.customer_email, o.payment_method,
	o.total_amount, o.amount_paid, o.change_amount, o.discount, o.status,
	o.created_at, o.updated_at,
	u.first_name, u.last_name
FROM orders o
LEFT JOIN users u ON u.id = o.user_id
ORDER BY o.created_at DESC`

type ListOrdersRow struct {
	Order
	CashierFirstName pgtype.Text
	CashierLastName  pgtype.Text
}

func (q *Queries) ListOrders(ctx context.Context) ([]ListOrdersRow, error) {
	rows, err := q.db.Query(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrdersRow
	for rows.Next() {
		var r ListOrdersRow
		err := rows.Scan(
			&r.ID, &r.UserID, &r.CustomerName, &r.CustomerEmail, &r.PaymentMethod,
			&r.TotalAmount, &r.AmountPaid, &r.ChangeAmount, &r.Discount, &r.Status,
			&r.CreatedAt, &r.UpdatedAt,
			&r.CashierFirstName, &r.CashierLastName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listOrderItemsByOrder = `
SELECT i.id, i.order_id, i.product_id, i.quantity, i.price, i.subtotal, p.name
FROM order_items i
JOIN products p ON p.id = i.product_id
WHERE i.order_id = $1
ORDER BY p.name`

type ListOrderItemsByOrderRow struct {
	OrderItem
	ProductName string
}

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]ListOrderItemsByOrderRow, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrderItemsByOrderRow
	for rows.Next() {
		var r ListOrderItemsByOrderRow
		err := rows.Scan(&r.ID, &r.OrderID, &r.ProductID, &r.Quantity, &r.Price, &r.Subtotal, &r.ProductName)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// updateOrderStatus flips status only when the current status matches,
// making the transition check atomic.
const updateOrderStatus = `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	Status     string
	ID         uuid.UUID
	FromStatus string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.Status, arg.ID, arg.FromStatus))
}

const getSalesSummary = `
SELECT
	COUNT(*) FILTER (WHERE status = 'completed'),
	COUNT(*) FILTER (WHERE status = 'cancelled'),
	COALESCE(SUM(total_amount) FILTER (WHERE status = 'completed'), 0)
FROM orders`

type GetSalesSummaryRow struct {
	CompletedOrders int64
	CancelledOrders int64
	TotalRevenue    pgtype.Numeric
}

func (q *Queries) GetSalesSummary(ctx context.Context) (GetSalesSummaryRow, error) {
	var r GetSalesSummaryRow
	err := q.db.QueryRow(ctx, getSalesSummary).Scan(&r.CompletedOrders, &r.CancelledOrders, &r.TotalRevenue)
	return r, err
}

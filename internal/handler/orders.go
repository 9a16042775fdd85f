package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/snackhub/api/internal/database"
	"github.com/snackhub/api/internal/middleware"
	"github.com/snackhub/api/internal/notify"
	"github.com/snackhub/api/internal/service"
)

// OrderPlacer is the order business logic. Satisfied by *service.OrderService.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*database.Order, error)
}

// OrderReadStore defines the read-only database methods needed by order
// handlers. Satisfied by *database.Queries.
type OrderReadStore interface {
	ListOrders(ctx context.Context) ([]database.ListOrdersRow, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderItemsByOrderRow, error)
}

// Broadcaster pushes order events to connected clients. Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// ConfirmationSender posts order confirmations. Satisfied by *notify.Webhook.
type ConfirmationSender interface {
	SendOrderConfirmation(conf notify.OrderConfirmation)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc     OrderPlacer
	store   OrderReadStore
	hub     Broadcaster
	webhook ConfirmationSender
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderPlacer, store OrderReadStore, hub Broadcaster, webhook ConfirmationSender) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, hub: hub, webhook: webhook}
}

// RegisterRoutes registers the protected order endpoints.
// List lives on the public router (see router.New).
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/storeOrder", h.Create)
	r.Get("/getOrder/{id}", h.Get)
	r.Put("/cancelOrder/{id}", h.Cancel)
}

// --- Request / Response types ---

type storeOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// storeOrderRequest accepts discount and amount_paid as JSON numbers or
// strings; the SPA sends numbers.
type storeOrderRequest struct {
	CustomerName  string                  `json:"customer_name"`
	CustomerEmail string                  `json:"customer_email"`
	PaymentMethod string                  `json:"payment_method"`
	Discount      json.Number             `json:"discount"`
	AmountPaid    json.Number             `json:"amount_paid"`
	Items         []storeOrderItemRequest `json:"items"`
}

type orderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int32     `json:"quantity"`
	Price       string    `json:"price"`
	Subtotal    string    `json:"subtotal"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	CashierID     *uuid.UUID          `json:"cashier_id,omitempty"`
	CashierName   string              `json:"cashier_name,omitempty"`
	CustomerName  string              `json:"customer_name,omitempty"`
	CustomerEmail string              `json:"customer_email,omitempty"`
	PaymentMethod string              `json:"payment_method"`
	TotalAmount   string              `json:"total_amount"`
	AmountPaid    string              `json:"amount_paid"`
	ChangeAmount  string              `json:"change_amount"`
	Discount      string              `json:"discount"`
	Status        string              `json:"status"`
	Items         []orderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName.String,
		CustomerEmail: o.CustomerEmail.String,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   numericString(o.TotalAmount),
		AmountPaid:    numericString(o.AmountPaid),
		ChangeAmount:  numericString(o.ChangeAmount),
		Discount:      numericString(o.Discount),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.UserID.Valid {
		id := uuid.UUID(o.UserID.Bytes)
		resp.CashierID = &id
	}
	return resp
}

func toOrderItemResponses(items []database.ListOrderItemsByOrderRow) []orderItemResponse {
	resp := make([]orderItemResponse, len(items))
	for i, item := range items {
		resp[i] = orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       numericString(item.Price),
			Subtotal:    numericString(item.Subtotal),
		}
	}
	return resp
}

// --- Handlers ---

// List returns all orders, newest first, with the cashier's name joined in.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		writeInternalError(w, "list orders", err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o.Order)
		resp[i].CashierName = strings.TrimSpace(o.CashierFirstName.String + " " + o.CashierLastName.String)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": resp})
}

// Create places an order. Prices, totals, and change are computed
// server-side; the client's cart only names products and quantities.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req storeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cashierID := uuid.Nil
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		cashierID = claims.UserID
	}

	svcReq := service.PlaceOrderRequest{
		CashierID:     cashierID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount.String(),
		AmountPaid:    req.AmountPaid.String(),
	}
	for _, item := range req.Items {
		svcReq.Items = append(svcReq.Items, service.PlaceOrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.svc.PlaceOrder(r.Context(), svcReq)
	if err != nil {
		h.writePlaceOrderError(w, err)
		return
	}

	resp := toOrderResponse(result.Order)
	resp.Items = make([]orderItemResponse, len(result.Items))
	for i, pi := range result.Items {
		resp.Items[i] = orderItemResponse{
			ID:          pi.Item.ID,
			ProductID:   pi.Item.ProductID,
			ProductName: pi.ProductName,
			Quantity:    pi.Item.Quantity,
			Price:       numericString(pi.Item.Price),
			Subtotal:    numericString(pi.Item.Subtotal),
		}
	}

	h.hub.Broadcast("order.created", resp)
	h.sendConfirmation(result)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully.",
		"order":   resp,
	})
}

// Get returns a single order with its items.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, "get order", err)
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		writeInternalError(w, "get order: list items", err)
		return
	}

	resp := toOrderResponse(order)
	resp.Items = toOrderItemResponses(items)

	writeJSON(w, http.StatusOK, map[string]interface{}{"order": resp})
}

// Cancel flips a completed order to cancelled and restores its stock.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.svc.CancelOrder(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeMessage(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrAlreadyCancelled), errors.Is(err, service.ErrOrderStatusChanged):
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeInternalError(w, "cancel order", err)
		}
		return
	}

	resp := toOrderResponse(*order)
	h.hub.Broadcast("order.cancelled", resp)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order cancelled successfully.",
		"order":   resp,
	})
}

// --- Helpers ---

func (h *OrderHandler) writePlaceOrderError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		writeFieldError(w, "items", stockErr.Error())
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidProductID),
		errors.Is(err, service.ErrProductNotFound):
		writeFieldError(w, "items", err.Error())
	case errors.Is(err, service.ErrPaymentMethod):
		writeFieldError(w, "payment_method", err.Error())
	case errors.Is(err, service.ErrInvalidAmountPaid),
		errors.Is(err, service.ErrInsufficientPayment):
		writeFieldError(w, "amount_paid", err.Error())
	case errors.Is(err, service.ErrInvalidDiscount):
		writeFieldError(w, "discount", err.Error())
	default:
		writeInternalError(w, "place order", err)
	}
}

func (h *OrderHandler) sendConfirmation(result *service.PlaceOrderResult) {
	conf := notify.OrderConfirmation{
		OrderID:       result.Order.ID,
		CustomerName:  result.Order.CustomerName.String,
		CustomerEmail: result.Order.CustomerEmail.String,
		PaymentMethod: result.Order.PaymentMethod,
		TotalAmount:   numericString(result.Order.TotalAmount),
		AmountPaid:    numericString(result.Order.AmountPaid),
		ChangeAmount:  numericString(result.Order.ChangeAmount),
	}
	for _, pi := range result.Items {
		conf.Items = append(conf.Items, notify.OrderItem{
			ProductName: pi.ProductName,
			Quantity:    pi.Item.Quantity,
			Price:       numericString(pi.Item.Price),
			Subtotal:    numericString(pi.Item.Subtotal),
		})
	}
	h.webhook.SendOrderConfirmation(conf)
}

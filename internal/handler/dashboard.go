package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snackhub/api/internal/database"
)

// lowStockThreshold marks products that need restocking on the dashboard.
const lowStockThreshold = 10

// DashboardStore defines the database methods needed by the dashboard.
// Satisfied by *database.Queries; narrow interface for testability.
type DashboardStore interface {
	GetSalesSummary(ctx context.Context) (database.GetSalesSummaryRow, error)
	ListLowStockProducts(ctx context.Context, threshold int32) ([]database.Product, error)
}

// DashboardHandler serves the landing-page sales summary.
type DashboardHandler struct {
	store DashboardStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// RegisterRoutes registers the dashboard endpoint.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Summary)
}

type dashboardResponse struct {
	CompletedOrders int64             `json:"completed_orders"`
	CancelledOrders int64             `json:"cancelled_orders"`
	TotalRevenue    string            `json:"total_revenue"`
	LowStock        []productResponse `json:"low_stock_products"`
}

// Summary returns order counts, completed revenue, and low-stock products.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.GetSalesSummary(r.Context())
	if err != nil {
		writeInternalError(w, "dashboard: sales summary", err)
		return
	}

	lowStock, err := h.store.ListLowStockProducts(r.Context(), lowStockThreshold)
	if err != nil {
		writeInternalError(w, "dashboard: low stock", err)
		return
	}

	resp := dashboardResponse{
		CompletedOrders: summary.CompletedOrders,
		CancelledOrders: summary.CancelledOrders,
		TotalRevenue:    numericString(summary.TotalRevenue),
		LowStock:        make([]productResponse, len(lowStock)),
	}
	for i, p := range lowStock {
		resp.LowStock[i] = toProductResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

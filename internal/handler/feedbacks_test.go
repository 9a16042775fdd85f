package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/snackhub/api/internal/database"
	"github.com/snackhub/api/internal/handler"
)

// --- Mock store ---

type mockFeedbackStore struct {
	orders    map[uuid.UUID]database.Order
	feedbacks []database.Feedback
}

func newMockFeedbackStore() *mockFeedbackStore {
	return &mockFeedbackStore{orders: make(map[uuid.UUID]database.Order)}
}

func (m *mockFeedbackStore) GetOrder(_ context.Context, id uuid.UUID) (database.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *mockFeedbackStore) CreateFeedback(_ context.Context, arg database.CreateFeedbackParams) (database.Feedback, error) {
	f := database.Feedback{
		ID:      uuid.New(),
		OrderID: arg.OrderID,
		Rating:  arg.Rating,
		Comment: arg.Comment,
		Email:   arg.Email,
	}
	m.feedbacks = append(m.feedbacks, f)
	return f, nil
}

func (m *mockFeedbackStore) ListFeedbacks(_ context.Context) ([]database.Feedback, error) {
	return m.feedbacks, nil
}

// --- Helpers ---

func setupFeedbackRouter(store *mockFeedbackStore) *chi.Mux {
	h := handler.NewFeedbackHandler(store)
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	h.RegisterRoutes(r)
	return r
}

// --- Tests ---

func TestFeedbackCreate_Success(t *testing.T) {
	store := newMockFeedbackStore()
	orderID := uuid.New()
	store.orders[orderID] = database.Order{ID: orderID}
	router := setupFeedbackRouter(store)

	rr := doRequest(t, router, "POST", "/feedback", map[string]interface{}{
		"order_id": orderID.String(),
		"rating":   5,
		"comment":  "Great burgers!",
		"email":    "juan@example.com",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if len(store.feedbacks) != 1 {
		t.Fatalf("expected 1 feedback stored, got %d", len(store.feedbacks))
	}
	if store.feedbacks[0].Rating.Int32 != 5 {
		t.Errorf("rating: got %d, want 5", store.feedbacks[0].Rating.Int32)
	}
}

func TestFeedbackCreate_CommentOnly(t *testing.T) {
	store := newMockFeedbackStore()
	orderID := uuid.New()
	store.orders[orderID] = database.Order{ID: orderID}
	router := setupFeedbackRouter(store)

	rr := doRequest(t, router, "POST", "/feedback", map[string]interface{}{
		"order_id": orderID.String(),
		"comment":  "Quick service.",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if store.feedbacks[0].Rating.Valid {
		t.Error("rating should be NULL when omitted")
	}
}

func TestFeedbackCreate_OrderNotFound(t *testing.T) {
	store := newMockFeedbackStore()
	router := setupFeedbackRouter(store)

	rr := doRequest(t, router, "POST", "/feedback", map[string]interface{}{
		"order_id": uuid.NewString(),
		"rating":   4,
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	if len(store.feedbacks) != 0 {
		t.Error("feedback stored for missing order")
	}
}

func TestFeedbackCreate_InvalidRating(t *testing.T) {
	store := newMockFeedbackStore()
	orderID := uuid.New()
	store.orders[orderID] = database.Order{ID: orderID}
	router := setupFeedbackRouter(store)

	for _, rating := range []int{0, 6, -1} {
		rr := doRequest(t, router, "POST", "/feedback", map[string]interface{}{
			"order_id": orderID.String(),
			"rating":   rating,
		})
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("rating %d: status got %d, want %d", rating, rr.Code, http.StatusUnprocessableEntity)
		}
	}
}

func TestFeedbackCreate_EmptySubmission(t *testing.T) {
	store := newMockFeedbackStore()
	orderID := uuid.New()
	store.orders[orderID] = database.Order{ID: orderID}
	router := setupFeedbackRouter(store)

	rr := doRequest(t, router, "POST", "/feedback", map[string]interface{}{
		"order_id": orderID.String(),
	})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
}

func TestFeedbackList(t *testing.T) {
	store := newMockFeedbackStore()
	store.feedbacks = append(store.feedbacks, database.Feedback{
		ID:      uuid.New(),
		OrderID: uuid.New(),
	})
	router := setupFeedbackRouter(store)

	rr := doRequest(t, router, "GET", "/loadFeedbacks", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeResponse(t, rr)
	feedbacks, ok := resp["feedbacks"].([]interface{})
	if !ok || len(feedbacks) != 1 {
		t.Fatalf("expected 1 feedback, got %v", resp["feedbacks"])
	}
}

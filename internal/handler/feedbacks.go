package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/snackhub/api/internal/database"
)

// FeedbackStore defines the database methods needed by feedback handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type FeedbackStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	CreateFeedback(ctx context.Context, arg database.CreateFeedbackParams) (database.Feedback, error)
	ListFeedbacks(ctx context.Context) ([]database.Feedback, error)
}

// FeedbackHandler handles customer feedback endpoints.
type FeedbackHandler struct {
	store FeedbackStore
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(store FeedbackStore) *FeedbackHandler {
	return &FeedbackHandler{store: store}
}

// RegisterPublicRoutes registers the public feedback submission endpoint.
// Customers reach it from the emailed feedback link, unauthenticated.
func (h *FeedbackHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/feedback", h.Create)
}

// RegisterRoutes registers the protected feedback endpoints.
func (h *FeedbackHandler) RegisterRoutes(r chi.Router) {
	r.Get("/loadFeedbacks", h.List)
}

// --- Request / Response types ---

type createFeedbackRequest struct {
	OrderID string `json:"order_id"`
	Rating  *int32 `json:"rating"`
	Comment string `json:"comment"`
	Email   string `json:"email"`
}

type feedbackResponse struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Rating    *int32    `json:"rating,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toFeedbackResponse(f database.Feedback) feedbackResponse {
	resp := feedbackResponse{
		ID:        f.ID,
		OrderID:   f.OrderID,
		Comment:   f.Comment.String,
		Email:     f.Email.String,
		CreatedAt: f.CreatedAt,
	}
	if f.Rating.Valid {
		rating := f.Rating.Int32
		resp.Rating = &rating
	}
	return resp
}

// --- Handlers ---

// Create records customer feedback against an existing order.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := validationErrors{}
	orderID, err := uuid.Parse(req.OrderID)
	if req.OrderID == "" {
		errs.add("order_id", "The order field is required.")
	} else if err != nil {
		errs.add("order_id", "The selected order is invalid.")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		errs.add("rating", "The rating must be between 1 and 5.")
	}
	if req.Rating == nil && req.Comment == "" {
		errs.add("comment", "A rating or a comment is required.")
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if _, err := h.store.GetOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, "create feedback: get order", err)
		return
	}

	rating := pgtype.Int4{}
	if req.Rating != nil {
		rating = pgtype.Int4{Int32: *req.Rating, Valid: true}
	}

	feedback, err := h.store.CreateFeedback(r.Context(), database.CreateFeedbackParams{
		OrderID: orderID,
		Rating:  rating,
		Comment: optionalText(req.Comment),
		Email:   optionalText(req.Email),
	})
	if err != nil {
		writeInternalError(w, "create feedback", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Thank you for your feedback.",
		"feedback": toFeedbackResponse(feedback),
	})
}

// List returns all feedback entries, newest first.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.store.ListFeedbacks(r.Context())
	if err != nil {
		writeInternalError(w, "list feedbacks", err)
		return
	}

	resp := make([]feedbackResponse, len(feedbacks))
	for i, f := range feedbacks {
		resp[i] = toFeedbackResponse(f)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedbacks": resp})
}

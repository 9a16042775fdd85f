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

// RoleStore defines the database methods needed by role handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type RoleStore interface {
	ListRoles(ctx context.Context) ([]database.Role, error)
	CreateRole(ctx context.Context, arg database.CreateRoleParams) (database.Role, error)
	UpdateRole(ctx context.Context, arg database.UpdateRoleParams) (database.Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	CountUsersByRole(ctx context.Context, roleID uuid.UUID) (int64, error)
}

// RoleHandler handles role CRUD endpoints.
type RoleHandler struct {
	store RoleStore
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(store RoleStore) *RoleHandler {
	return &RoleHandler{store: store}
}

// RegisterRoutes registers role endpoints on the given Chi router.
// Route names match the SPA's expectations.
func (h *RoleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/loadRoles", h.List)
	r.Post("/storeRole", h.Create)
	r.Put("/updateRole/{id}", h.Update)
	r.Delete("/deleteRole/{id}", h.Delete)
}

// --- Request / Response types ---

type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roleDetailResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRoleDetailResponse(r database.Role) roleDetailResponse {
	return roleDetailResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (req *roleRequest) validate() validationErrors {
	errs := validationErrors{}
	if req.Name == "" {
		errs.add("name", "The name field is required.")
	}
	return errs
}

// --- Handlers ---

// List returns all roles.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.store.ListRoles(r.Context())
	if err != nil {
		writeInternalError(w, "list roles", err)
		return
	}

	resp := make([]roleDetailResponse, len(roles))
	for i, role := range roles {
		resp[i] = toRoleDetailResponse(role)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"roles": resp})
}

// Create adds a new role.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	description := pgtype.Text{}
	if req.Description != "" {
		description = pgtype.Text{String: req.Description, Valid: true}
	}

	role, err := h.store.CreateRole(r.Context(), database.CreateRoleParams{
		Name:        req.Name,
		Description: description,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeMessage(w, http.StatusConflict, "role name already exists")
			return
		}
		writeInternalError(w, "create role", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Role created successfully.",
		"role":    toRoleDetailResponse(role),
	})
}

// Update modifies an existing role.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	roleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	description := pgtype.Text{}
	if req.Description != "" {
		description = pgtype.Text{String: req.Description, Valid: true}
	}

	role, err := h.store.UpdateRole(r.Context(), database.UpdateRoleParams{
		Name:        req.Name,
		Description: description,
		ID:          roleID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "role not found")
			return
		}
		if isUniqueViolation(err) {
			writeMessage(w, http.StatusConflict, "role name already exists")
			return
		}
		writeInternalError(w, "update role", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Role updated successfully.",
		"role":    toRoleDetailResponse(role),
	})
}

// Delete removes a role. A role that still has users assigned is kept and
// the request is rejected so accounts never lose their role reference.
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	count, err := h.store.CountUsersByRole(r.Context(), roleID)
	if err != nil {
		writeInternalError(w, "delete role: count users", err)
		return
	}
	if count > 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "cannot delete role: users are still assigned to it")
		return
	}

	if _, err := h.store.DeleteRole(r.Context(), roleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "role not found")
			return
		}
		writeInternalError(w, "delete role", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Role deleted successfully."})
}

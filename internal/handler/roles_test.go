package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/snackhub/api/internal/database"
	"github.com/snackhub/api/internal/handler"
)

// --- Mock store ---

type mockRoleStore struct {
	roles      map[uuid.UUID]database.Role
	userCounts map[uuid.UUID]int64
}

func newMockRoleStore() *mockRoleStore {
	return &mockRoleStore{
		roles:      make(map[uuid.UUID]database.Role),
		userCounts: make(map[uuid.UUID]int64),
	}
}

func (m *mockRoleStore) ListRoles(_ context.Context) ([]database.Role, error) {
	var result []database.Role
	for _, r := range m.roles {
		result = append(result, r)
	}
	return result, nil
}

func (m *mockRoleStore) CreateRole(_ context.Context, arg database.CreateRoleParams) (database.Role, error) {
	r := database.Role{
		ID:          uuid.New(),
		Name:        arg.Name,
		Description: arg.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.roles[r.ID] = r
	return r, nil
}

func (m *mockRoleStore) UpdateRole(_ context.Context, arg database.UpdateRoleParams) (database.Role, error) {
	r, ok := m.roles[arg.ID]
	if !ok {
		return database.Role{}, pgx.ErrNoRows
	}
	r.Name = arg.Name
	r.Description = arg.Description
	m.roles[r.ID] = r
	return r, nil
}

func (m *mockRoleStore) DeleteRole(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.roles[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.roles, id)
	return id, nil
}

func (m *mockRoleStore) CountUsersByRole(_ context.Context, roleID uuid.UUID) (int64, error) {
	return m.userCounts[roleID], nil
}

// --- Helpers ---

func setupRoleRouter(store *mockRoleStore) *chi.Mux {
	h := handler.NewRoleHandler(store)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// --- Tests ---

func TestRoleList(t *testing.T) {
	store := newMockRoleStore()
	roleID := uuid.New()
	store.roles[roleID] = database.Role{
		ID:          roleID,
		Name:        "Supervisor",
		Description: pgtype.Text{String: "Floor supervisor", Valid: true},
	}
	router := setupRoleRouter(store)

	rr := doRequest(t, router, "GET", "/loadRoles", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeResponse(t, rr)
	roles, ok := resp["roles"].([]interface{})
	if !ok || len(roles) != 1 {
		t.Fatalf("expected 1 role, got %v", resp["roles"])
	}
}

func TestRoleCreate(t *testing.T) {
	store := newMockRoleStore()
	router := setupRoleRouter(store)

	rr := doRequest(t, router, "POST", "/storeRole", map[string]string{
		"name":        "Supervisor",
		"description": "Floor supervisor",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if len(store.roles) != 1 {
		t.Errorf("expected 1 role stored, got %d", len(store.roles))
	}
}

func TestRoleCreate_MissingName(t *testing.T) {
	store := newMockRoleStore()
	router := setupRoleRouter(store)

	rr := doRequest(t, router, "POST", "/storeRole", map[string]string{"description": "no name"})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	resp := decodeResponse(t, rr)
	errs, ok := resp["errors"].(map[string]interface{})
	if !ok || errs["name"] == nil {
		t.Errorf("expected a name error, got %v", resp)
	}
}

func TestRoleUpdate_NotFound(t *testing.T) {
	store := newMockRoleStore()
	router := setupRoleRouter(store)

	rr := doRequest(t, router, "PUT", "/updateRole/"+uuid.NewString(), map[string]string{"name": "X"})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestRoleDelete_BlockedWhenUsersAssigned(t *testing.T) {
	store := newMockRoleStore()
	roleID := uuid.New()
	store.roles[roleID] = database.Role{ID: roleID, Name: "Cashier"}
	store.userCounts[roleID] = 3
	router := setupRoleRouter(store)

	rr := doRequest(t, router, "DELETE", "/deleteRole/"+roleID.String(), nil)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
	if _, ok := store.roles[roleID]; !ok {
		t.Error("role was deleted despite assigned users")
	}
}

func TestRoleDelete_Success(t *testing.T) {
	store := newMockRoleStore()
	roleID := uuid.New()
	store.roles[roleID] = database.Role{ID: roleID, Name: "Temp"}
	router := setupRoleRouter(store)

	rr := doRequest(t, router, "DELETE", "/deleteRole/"+roleID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if _, ok := store.roles[roleID]; ok {
		t.Error("role still present after delete")
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/snackhub/api/internal/access"
	"github.com/snackhub/api/internal/auth"
	"github.com/snackhub/api/internal/database"
	"github.com/snackhub/api/internal/middleware"
	"golang.org/x/crypto/bcrypt"
)

// AuthStore defines the database methods needed by auth handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	GetRole(ctx context.Context, id uuid.UUID) (database.Role, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret}
}

// RegisterPublicRoutes registers the unauthenticated auth endpoints.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}

// RegisterRoutes registers the authenticated auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/logout", h.Logout)
	r.Get("/user", h.Me)
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type roleResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type userResponse struct {
	ID           uuid.UUID    `json:"id"`
	FirstName    string       `json:"first_name"`
	MiddleName   string       `json:"middle_name,omitempty"`
	LastName     string       `json:"last_name"`
	SuffixName   string       `json:"suffix_name,omitempty"`
	Age          int32        `json:"age"`
	Gender       string       `json:"gender"`
	Contact      string       `json:"contact"`
	Address      string       `json:"address"`
	Email        string       `json:"email"`
	ProfileImage string       `json:"profile_image,omitempty"`
	Role         roleResponse `json:"role"`
	Permissions  []string     `json:"permissions"`
}

func toUserResponse(u database.User, role database.Role) userResponse {
	return userResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		MiddleName:   u.MiddleName.String,
		LastName:     u.LastName,
		SuffixName:   u.SuffixName.String,
		Age:          u.Age,
		Gender:       u.Gender,
		Contact:      u.Contact,
		Address:      u.Address,
		Email:        u.Email,
		ProfileImage: u.ProfileImage.String,
		Role:         roleResponse{ID: role.ID, Name: role.Name},
		Permissions:  access.NavItems(role.Name),
	}
}

// --- Handlers ---

// Login handles email + password authentication. The response carries the
// nav items the client is allowed to render, resolved from the user's role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		errs := validationErrors{}
		if req.Email == "" {
			errs.add("email", "The email field is required.")
		}
		if req.Password == "" {
			errs.add("password", "The password field is required.")
		}
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeInternalError(w, "login: get user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	role, err := h.store.GetRole(r.Context(), user.RoleID)
	if err != nil {
		writeInternalError(w, "login: get role", err)
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, role.Name)
	if err != nil {
		writeInternalError(w, "login: generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user, role),
	})
}

// Logout acknowledges the client discarding its token. Tokens are stateless,
// so there is nothing to revoke server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "logged out")
}

// Me returns the authenticated user with role and nav permissions, so the
// SPA can re-validate its session on reload.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusUnauthorized, "user not found")
			return
		}
		writeInternalError(w, "whoami: get user", err)
		return
	}

	role, err := h.store.GetRole(r.Context(), user.RoleID)
	if err != nil {
		writeInternalError(w, "whoami: get role", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user, role)})
}

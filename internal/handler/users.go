package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/snackhub/api/internal/database"
	"github.com/snackhub/api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

// UserStore defines the database methods needed by user handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type UserStore interface {
	ListUsers(ctx context.Context) ([]database.ListUsersRow, error)
	GetRole(ctx context.Context, id uuid.UUID) (database.Role, error)
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	UpdateUser(ctx context.Context, arg database.UpdateUserParams) (database.User, error)
	UpdateUserPassword(ctx context.Context, arg database.UpdateUserPasswordParams) (uuid.UUID, error)
	UpdateUserProfileImage(ctx context.Context, arg database.UpdateUserProfileImageParams) (uuid.UUID, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	CountOrdersByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	store     UserStore
	uploadDir string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore, uploadDir string) *UserHandler {
	return &UserHandler{store: store, uploadDir: uploadDir}
}

// RegisterRoutes registers the protected user endpoints.
// List lives on the public router (see router.New).
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/storeUser", h.Create)
	r.Put("/updateUser/{id}", h.Update)
	r.Delete("/deleteUser/{id}", h.Delete)
}

// --- Request / Response types ---

// userForm is read from a multipart form; the profile image rides along as
// a file part.
type userForm struct {
	RoleID     string
	FirstName  string
	MiddleName string
	LastName   string
	SuffixName string
	Age        string
	Gender     string
	Contact    string
	Address    string
	Email      string
	Password   string
}

func readUserForm(r *http.Request) userForm {
	return userForm{
		RoleID:     r.FormValue("role_id"),
		FirstName:  r.FormValue("first_name"),
		MiddleName: r.FormValue("middle_name"),
		LastName:   r.FormValue("last_name"),
		SuffixName: r.FormValue("suffix_name"),
		Age:        r.FormValue("age"),
		Gender:     r.FormValue("gender"),
		Contact:    r.FormValue("contact"),
		Address:    r.FormValue("address"),
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
	}
}

func (f *userForm) validate(requirePassword bool) (validationErrors, int32, uuid.UUID) {
	errs := validationErrors{}

	roleID, err := uuid.Parse(f.RoleID)
	if f.RoleID == "" {
		errs.add("role_id", "The role field is required.")
	} else if err != nil {
		errs.add("role_id", "The selected role is invalid.")
	}

	if f.FirstName == "" {
		errs.add("first_name", "The first name field is required.")
	}
	if f.LastName == "" {
		errs.add("last_name", "The last name field is required.")
	}

	var age int64
	if f.Age == "" {
		errs.add("age", "The age field is required.")
	} else {
		age, err = strconv.ParseInt(f.Age, 10, 32)
		if err != nil || age <= 0 {
			errs.add("age", "The age must be a positive number.")
		}
	}

	switch f.Gender {
	case enum.GenderFemale, enum.GenderMale, enum.GenderOthers:
	case "":
		errs.add("gender", "The gender field is required.")
	default:
		errs.add("gender", "The selected gender is invalid.")
	}

	if f.Contact == "" {
		errs.add("contact", "The contact field is required.")
	}
	if f.Address == "" {
		errs.add("address", "The address field is required.")
	}

	if f.Email == "" {
		errs.add("email", "The email field is required.")
	} else if !strings.Contains(f.Email, "@") {
		errs.add("email", "The email must be a valid email address.")
	}

	if requirePassword && f.Password == "" {
		errs.add("password", "The password field is required.")
	}
	if f.Password != "" && len(f.Password) < 8 {
		errs.add("password", "The password must be at least 8 characters.")
	}

	return errs, int32(age), roleID
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

type userDetailResponse struct {
	userResponse
	RoleID uuid.UUID `json:"role_id"`
}

// --- Handlers ---

// List returns all users with their roles.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeInternalError(w, "list users", err)
		return
	}

	resp := make([]userDetailResponse, len(users))
	for i, u := range users {
		resp[i] = userDetailResponse{
			userResponse: toUserResponse(u.User, database.Role{ID: u.RoleID, Name: u.RoleName}),
			RoleID:       u.RoleID,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": resp})
}

// Create adds a new user, optionally storing an uploaded profile image.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := readUserForm(r)
	errs, age, roleID := form.validate(true)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	role, err := h.store.GetRole(r.Context(), roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeFieldError(w, "role_id", "The selected role is invalid.")
			return
		}
		writeInternalError(w, "create user: get role", err)
		return
	}

	profileImage, err := saveUpload(r, "profileImage", h.uploadDir)
	if err != nil {
		if errors.Is(err, errBadImageType) {
			writeFieldError(w, "profileImage", err.Error())
			return
		}
		writeInternalError(w, "create user: save profile image", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		writeInternalError(w, "create user: hash password", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), database.CreateUserParams{
		RoleID:         role.ID,
		FirstName:      form.FirstName,
		MiddleName:     optionalText(form.MiddleName),
		LastName:       form.LastName,
		SuffixName:     optionalText(form.SuffixName),
		Age:            age,
		Gender:         form.Gender,
		Contact:        form.Contact,
		Address:        form.Address,
		Email:          form.Email,
		HashedPassword: string(hashed),
		ProfileImage:   profileImage,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeFieldError(w, "email", "The email has already been taken.")
			return
		}
		writeInternalError(w, "create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully.",
		"user": userDetailResponse{
			userResponse: toUserResponse(user, role),
			RoleID:       role.ID,
		},
	})
}

// Update modifies an existing user. Password and profile image are only
// changed when the form carries them.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := readUserForm(r)
	errs, age, roleID := form.validate(false)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	role, err := h.store.GetRole(r.Context(), roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeFieldError(w, "role_id", "The selected role is invalid.")
			return
		}
		writeInternalError(w, "update user: get role", err)
		return
	}

	user, err := h.store.UpdateUser(r.Context(), database.UpdateUserParams{
		RoleID:     role.ID,
		FirstName:  form.FirstName,
		MiddleName: optionalText(form.MiddleName),
		LastName:   form.LastName,
		SuffixName: optionalText(form.SuffixName),
		Age:        age,
		Gender:     form.Gender,
		Contact:    form.Contact,
		Address:    form.Address,
		Email:      form.Email,
		ID:         userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		if isUniqueViolation(err) {
			writeFieldError(w, "email", "The email has already been taken.")
			return
		}
		writeInternalError(w, "update user", err)
		return
	}

	if form.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			writeInternalError(w, "update user: hash password", err)
			return
		}
		if _, err := h.store.UpdateUserPassword(r.Context(), database.UpdateUserPasswordParams{
			HashedPassword: string(hashed),
			ID:             userID,
		}); err != nil {
			writeInternalError(w, "update user: password", err)
			return
		}
	}

	profileImage, err := saveUpload(r, "profileImage", h.uploadDir)
	if err != nil {
		if errors.Is(err, errBadImageType) {
			writeFieldError(w, "profileImage", err.Error())
			return
		}
		writeInternalError(w, "update user: save profile image", err)
		return
	}
	if profileImage.Valid {
		if _, err := h.store.UpdateUserProfileImage(r.Context(), database.UpdateUserProfileImageParams{
			ProfileImage: profileImage,
			ID:           userID,
		}); err != nil {
			writeInternalError(w, "update user: profile image", err)
			return
		}
		user.ProfileImage = profileImage
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully.",
		"user": userDetailResponse{
			userResponse: toUserResponse(user, role),
			RoleID:       role.ID,
		},
	})
}

// Delete removes a user. Users with recorded orders are kept so order
// history never loses its cashier reference.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	count, err := h.store.CountOrdersByUser(r.Context(), userID)
	if err != nil {
		writeInternalError(w, "delete user: count orders", err)
		return
	}
	if count > 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "cannot delete user: orders are recorded under this account")
		return
	}

	if _, err := h.store.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, "delete user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully."})
}

package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, role_id, first_name, middle_name, last_name, suffix_name,
	age, gender, contact, address, email, hashed_password, profile_image,
	created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.RoleID, &u.FirstName, &u.MiddleName, &u.LastName, &u.SuffixName,
		&u.Age, &u.Gender, &u.Contact, &u.Address, &u.Email, &u.HashedPassword,
		&u.ProfileImage, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

const listUsers = `
SELECT u.id, u.role_id, u.first_name, u.middle_name, u.last_name, u.suffix_name,
	u.age, u.gender, u.contact, u.address, u.email, u.hashed_password, u.profile_image,
	u.created_at, u.updated_at,
	r.name, r.description
FROM users u
JOIN roles r ON r.id = u.role_id
ORDER BY u.last_name, u.first_name`

type ListUsersRow struct {
	User
	RoleName        string
	RoleDescription pgtype.Text
}

func (q *Queries) ListUsers(ctx context.Context) ([]ListUsersRow, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListUsersRow
	for rows.Next() {
		var r ListUsersRow
		err := rows.Scan(
			&r.ID, &r.RoleID, &r.FirstName, &r.MiddleName, &r.LastName, &r.SuffixName,
			&r.Age, &r.Gender, &r.Contact, &r.Address, &r.Email, &r.HashedPassword,
			&r.ProfileImage, &r.CreatedAt, &r.UpdatedAt,
			&r.RoleName, &r.RoleDescription,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, id))
}

const createUser = `
INSERT INTO users (role_id, first_name, middle_name, last_name, suffix_name,
	age, gender, contact, address, email, hashed_password, profile_image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + userColumns

type CreateUserParams struct {
	RoleID         uuid.UUID
	FirstName      string
	MiddleName     pgtype.Text
	LastName       string
	SuffixName     pgtype.Text
	Age            int32
	Gender         string
	Contact        string
	Address        string
	Email          string
	HashedPassword string
	ProfileImage   pgtype.Text
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser,
		arg.RoleID, arg.FirstName, arg.MiddleName, arg.LastName, arg.SuffixName,
		arg.Age, arg.Gender, arg.Contact, arg.Address, arg.Email,
		arg.HashedPassword, arg.ProfileImage,
	))
}

const updateUser = `
UPDATE users
SET role_id = $1, first_name = $2, middle_name = $3, last_name = $4,
	suffix_name = $5, age = $6, gender = $7, contact = $8, address = $9,
	email = $10, updated_at = now()
WHERE id = $11
RETURNING ` + userColumns

type UpdateUserParams struct {
	RoleID     uuid.UUID
	FirstName  string
	MiddleName pgtype.Text
	LastName   string
	SuffixName pgtype.Text
	Age        int32
	Gender     string
	Contact    string
	Address    string
	Email      string
	ID         uuid.UUID
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUser,
		arg.RoleID, arg.FirstName, arg.MiddleName, arg.LastName, arg.SuffixName,
		arg.Age, arg.Gender, arg.Contact, arg.Address, arg.Email, arg.ID,
	))
}

const updateUserPassword = `
UPDATE users SET hashed_password = $1, updated_at = now() WHERE id = $2 RETURNING id`

type UpdateUserPasswordParams struct {
	HashedPassword string
	ID             uuid.UUID
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, updateUserPassword, arg.HashedPassword, arg.ID).Scan(&id)
	return id, err
}

const updateUserProfileImage = `
UPDATE users SET profile_image = $1, updated_at = now() WHERE id = $2 RETURNING id`

type UpdateUserProfileImageParams struct {
	ProfileImage pgtype.Text
	ID           uuid.UUID
}

func (q *Queries) UpdateUserProfileImage(ctx context.Context, arg UpdateUserProfileImageParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, updateUserProfileImage, arg.ProfileImage, arg.ID).Scan(&id)
	return id, err
}

const deleteUser = `DELETE FROM users WHERE id = $1 RETURNING id`

func (q *Queries) DeleteUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteUser, id).Scan(&deleted)
	return deleted, err
}

const countOrdersByUser = `SELECT COUNT(*) FROM orders WHERE user_id = $1`

func (q *Queries) CountOrdersByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOrdersByUser, userID).Scan(&count)
	return count, err
}

package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const roleColumns = `id, name, description, created_at, updated_at`

func scanRole(row interface{ Scan(dest ...any) error }) (Role, error) {
	var r Role
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const listRoles = `SELECT ` + roleColumns + ` FROM roles ORDER BY name`

func (q *Queries) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := q.db.Query(ctx, listRoles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getRole = `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`

func (q *Queries) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	return scanRole(q.db.QueryRow(ctx, getRole, id))
}

const createRole = `
INSERT INTO roles (name, description)
VALUES ($1, $2)
RETURNING ` + roleColumns

type CreateRoleParams struct {
	Name        string
	Description pgtype.Text
}

func (q *Queries) CreateRole(ctx context.Context, arg CreateRoleParams) (Role, error) {
	return scanRole(q.db.QueryRow(ctx, createRole, arg.Name, arg.Description))
}

const updateRole = `
UPDATE roles
SET name = $1, description = $2, updated_at = now()
WHERE id = $3
RETURNING ` + roleColumns

type UpdateRoleParams struct {
	Name        string
	Description pgtype.Text
	ID          uuid.UUID
}

func (q *Queries) UpdateRole(ctx context.Context, arg UpdateRoleParams) (Role, error) {
	return scanRole(q.db.QueryRow(ctx, updateRole, arg.Name, arg.Description, arg.ID))
}

const deleteRole = `DELETE FROM roles WHERE id = $1 RETURNING id`

func (q *Queries) DeleteRole(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteRole, id).Scan(&deleted)
	return deleted, err
}

const countUsersByRole = `SELECT COUNT(*) FROM users WHERE role_id = $1`

func (q *Queries) CountUsersByRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countUsersByRole, roleID).Scan(&count)
	return count, err
}

package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const feedbackColumns = `id, order_id, rating, comment, email, created_at`

func scanFeedback(row interface{ Scan(dest ...any) error }) (Feedback, error) {
	var f Feedback
	err := row.Scan(&f.ID, &f.OrderID, &f.Rating, &f.Comment, &f.Email, &f.CreatedAt)
	return f, err
}

const createFeedback = `
INSERT INTO feedbacks (order_id, rating, comment, email)
VALUES ($1, $2, $3, $4)
RETURNING ` + feedbackColumns

type CreateFeedbackParams struct {
	OrderID uuid.UUID
	Rating  pgtype.Int4
	Comment pgtype.Text
	Email   pgtype.Text
}

func (q *Queries) CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (Feedback, error) {
	return scanFeedback(q.db.QueryRow(ctx, createFeedback, arg.OrderID, arg.Rating, arg.Comment, arg.Email))
}

const listFeedbacks = `
SELECT ` + feedbackColumns + ` FROM feedbacks ORDER BY created_at DESC`

func (q *Queries) ListFeedbacks(ctx context.Context) ([]Feedback, error) {
	rows, err := q.db.Query(ctx, listFeedbacks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Role struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type User struct {
	ID             uuid.UUID
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
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Product struct {
	ID        uuid.UUID
	Name      string
	Price     pgtype.Numeric
	Quantity  int32
	ImagePath pgtype.Text
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID            uuid.UUID
	UserID        pgtype.UUID
	CustomerName  pgtype.Text
	CustomerEmail pgtype.Text
	PaymentMethod string
	TotalAmount   pgtype.Numeric
	AmountPaid    pgtype.Numeric
	ChangeAmount  pgtype.Numeric
	Discount      pgtype.Numeric
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	Price     pgtype.Numeric
	Subtotal  pgtype.Numeric
}

type Feedback struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Rating    pgtype.Int4
	Comment   pgtype.Text
	Email     pgtype.Text
	CreatedAt time.Time
}

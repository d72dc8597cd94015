package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPrice is the largest price that fits the catalog's decimal(8,2) column.
var MaxPrice = decimal.RequireFromString("999999.99")

// Service is a priced item of the clinic's catalog.
type Service struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
}

type CreateServiceRequest struct {
	Name        string          `json:"name" validate:"required,max=250"`
	Description string          `json:"description" validate:"max=250"`
	Price       decimal.Decimal `json:"price"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=250"`
	Description *string          `json:"description" validate:"omitempty,max=250"`
	Price       *decimal.Decimal `json:"price"`
}

// Contact is an inbound message left through the public contact form.
type Contact struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Message string `json:"message" validate:"required,max=2000"`
}

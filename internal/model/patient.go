package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	MiddleName string    `db:"middle_name" json:"middle_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Phone      string    `db:"phone" json:"phone"`
	Address    string    `db:"address" json:"address"`
	Email      string    `db:"email" json:"email"`
	BirthDate  *Date     `db:"birth_date" json:"birth_date"`
	Photo      string    `db:"photo" json:"photo"`
	OwnerID    uuid.UUID `db:"owner_id" json:"owner_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", p.LastName, p.FirstName, p.MiddleName))
}

type CreatePatientRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	MiddleName string `json:"middle_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"max=20"`
	Address    string `json:"address" validate:"max=200"`
	Email      string `json:"email" validate:"omitempty,email"`
	BirthDate  *Date  `json:"birth_date"`
	Photo      string `json:"photo" validate:"max=255"`
}

// UpdatePatientRequest is a partial update; nil fields are left unchanged.
// Owner is not part of the payload and cannot be reassigned.
type UpdatePatientRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Address    *string `json:"address" validate:"omitempty,max=200"`
	Email      *string `json:"email" validate:"omitempty,email"`
	BirthDate  *Date   `json:"birth_date"`
	Photo      *string `json:"photo" validate:"omitempty,max=255"`
}

type PatientFilters struct {
	OwnerID *uuid.UUID
}

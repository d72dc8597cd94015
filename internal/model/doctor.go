package model

import "github.com/google/uuid"

type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization"`
	Qualification  string    `db:"qualification" json:"qualification"`
	Experience     *int      `db:"experience" json:"experience"`
	Education      string    `db:"education" json:"education"`
	Avatar         string    `db:"avatar" json:"avatar"`
	Comment        string    `db:"comment" json:"comment"`
}

type CreateDoctorRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Specialization string `json:"specialization" validate:"required,max=500"`
	Qualification  string `json:"qualification" validate:"max=500"`
	Experience     *int   `json:"experience" validate:"omitempty,min=0"`
	Education      string `json:"education"`
	Avatar         string `json:"avatar" validate:"max=255"`
	Comment        string `json:"comment"`
}

type UpdateDoctorRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	Specialization *string `json:"specialization" validate:"omitempty,max=500"`
	Qualification  *string `json:"qualification" validate:"omitempty,max=500"`
	Experience     *int    `json:"experience" validate:"omitempty,min=0"`
	Education      *string `json:"education"`
	Avatar         *string `json:"avatar" validate:"omitempty,max=255"`
	Comment        *string `json:"comment"`
}

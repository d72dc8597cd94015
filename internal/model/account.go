package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Capabilities granted to accounts individually.
const (
	PermEditPatientEmail    = "patient.edit_email"
	PermEditPatientPhoto    = "patient.edit_photo"
	PermEditPatientBirthday = "patient.edit_birthday"
	PermEditDoctor          = "doctor.edit"
	PermEditService         = "service.edit"
)

// Account is an authenticated identity. Email is the natural key.
type Account struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	FirstName    string         `db:"first_name" json:"first_name"`
	LastName     string         `db:"last_name" json:"last_name"`
	Phone        string         `db:"phone" json:"phone"`
	Avatar       string         `db:"avatar" json:"avatar"`
	City         string         `db:"city" json:"city"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	IsSuperuser  bool           `db:"is_superuser" json:"is_superuser"`
	Groups       pq.StringArray `db:"groups" json:"groups"`
	Permissions  pq.StringArray `db:"permissions" json:"permissions"`
	Token        *string        `db:"token" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// AccountStatus is derived from IsActive; accounts have no stored status column.
type AccountStatus string

const (
	AccountStatusPending AccountStatus = "pending"
	AccountStatusActive  AccountStatus = "active"
)

func (a *Account) Status() AccountStatus {
	if a.IsActive {
		return AccountStatusActive
	}
	return AccountStatusPending
}

// MarshalJSON adds the derived status to the account fields.
func (a Account) MarshalJSON() ([]byte, error) {
	type fields Account
	return json.Marshal(struct {
		fields
		Status AccountStatus `json:"status"`
	}{fields(a), a.Status()})
}

// InGroup reports membership in the named group.
func (a *Account) InGroup(name string) bool {
	for _, g := range a.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// HasPermission reports whether the account holds perm. Superusers hold every permission.
func (a *Account) HasPermission(perm string) bool {
	if a.IsSuperuser {
		return true
	}
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// HasPermissions reports whether the account holds all of perms.
func (a *Account) HasPermissions(perms ...string) bool {
	for _, p := range perms {
		if !a.HasPermission(p) {
			return false
		}
	}
	return true
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Phone     *string `json:"phone" validate:"omitempty,max=35"`
	Avatar    *string `json:"avatar" validate:"omitempty,max=255"`
	City      *string `json:"city" validate:"omitempty,max=50"`
}

// RolesRequest replaces an account's role flags; nil fields are left unchanged.
type RolesRequest struct {
	IsSuperuser *bool    `json:"is_superuser"`
	IsActive    *bool    `json:"is_active"`
	Groups      []string `json:"groups" validate:"omitempty,dive,required,max=150"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,oneof=patient.edit_email patient.edit_photo patient.edit_birthday doctor.edit service.edit"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

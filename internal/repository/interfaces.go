package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

// All repository interfaces in one file. Lookups of missing rows return a
// NotFound AppError; unique violations return a Conflict AppError.
type (
	AccountRepository interface {
		Create(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		// GetByToken finds the pending account holding an activation token.
		GetByToken(ctx context.Context, token string) (*model.Account, error)
		Update(ctx context.Context, account *model.Account) error
		List(ctx context.Context) ([]*model.Account, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		// Delete removes the patient together with its appointments and results.
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	ResultRepository interface {
		Create(ctx context.Context, result *model.Result) error
		Get(ctx context.Context, id uuid.UUID) (*model.Result, error)
		Update(ctx context.Context, result *model.Result) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Result, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Service, error)
	}

	ContactRepository interface {
		Create(ctx context.Context, contact *model.Contact) error
		List(ctx context.Context) ([]*model.Contact, error)
	}
)

// Store groups the repositories and owns the transaction boundary.
type Store interface {
	Accounts() AccountRepository
	Patients() PatientRepository
	Doctors() DoctorRepository
	Appointments() AppointmentRepository
	Results() ResultRepository
	Services() ServiceRepository
	Contacts() ContactRepository

	// WithTx runs fn against a Store whose writes commit together when fn
	// returns nil and are discarded otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

const patientColumns = `id, first_name, middle_name, last_name, phone, address, email, birth_date, photo, owner_id, created_at`

type patientRepository struct {
	db sqlx.ExtContext
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	patient.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FirstName,
		patient.MiddleName,
		patient.LastName,
		patient.Phone,
		patient.Address,
		patient.Email,
		patient.BirthDate,
		patient.Photo,
		patient.OwnerID,
		patient.CreatedAt,
	)
	return translate(err, "patient")
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &patient, query, id); err != nil {
		return nil, translate(err, "patient")
	}
	return &patient, nil
}

// Update writes every editable column; owner and creation time are fixed.
func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, middle_name = $2, last_name = $3, phone = $4, address = $5,
			email = $6, birth_date = $7, photo = $8
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.MiddleName,
		patient.LastName,
		patient.Phone,
		patient.Address,
		patient.Email,
		patient.BirthDate,
		patient.Photo,
		patient.ID,
	)
	return expectOne(res, err, "patient")
}

// Delete relies on ON DELETE CASCADE for appointments and results.
func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return expectOne(res, err, "patient")
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	var args []interface{}
	if filters != nil && filters.OwnerID != nil {
		query += ` WHERE owner_id = $1`
		args = append(args, *filters.OwnerID)
	}
	query += ` ORDER BY last_name, first_name, id`

	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.db, &patients, query, args...); err != nil {
		return nil, translate(err, "patient")
	}
	return patients, nil
}

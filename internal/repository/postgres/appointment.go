package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

const appointmentColumns = `id, patient_id, doctor_id, owner_id, appoint_date`

type appointmentRepository struct {
	db sqlx.ExtContext
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.OwnerID,
		appointment.AppointDate,
	)
	return translate(err, "appointment")
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &appointment, query, id); err != nil {
		return nil, translate(err, "appointment")
	}
	return &appointment, nil
}

// Update never reassigns the owner.
func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, doctor_id = $2, appoint_date = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.AppointDate,
		appointment.ID,
	)
	return expectOne(res, err, "appointment")
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return expectOne(res, err, "appointment")
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(column string, value uuid.UUID) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filters != nil {
		if filters.OwnerID != nil {
			add("owner_id", *filters.OwnerID)
		}
		if filters.PatientID != nil {
			add("patient_id", *filters.PatientID)
		}
		if filters.DoctorID != nil {
			add("doctor_id", *filters.DoctorID)
		}
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY appoint_date DESC NULLS LAST, id`

	appointments := []*model.Appointment{}
	if err := sqlx.SelectContext(ctx, r.db, &appointments, query, args...); err != nil {
		return nil, translate(err, "appointment")
	}
	return appointments, nil
}

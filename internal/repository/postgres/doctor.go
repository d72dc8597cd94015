package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

const doctorColumns = `id, name, specialization, qualification, experience, education, avatar, comment`

type doctorRepository struct {
	db sqlx.ExtContext
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO doctors (`+doctorColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.Qualification,
		doctor.Experience,
		doctor.Education,
		doctor.Avatar,
		doctor.Comment,
	)
	return translate(err, "doctor")
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := sqlx.GetContext(ctx, r.db, &doctor, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id); err != nil {
		return nil, translate(err, "doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, specialization = $2, qualification = $3, experience = $4,
			education = $5, avatar = $6, comment = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.Qualification,
		doctor.Experience,
		doctor.Education,
		doctor.Avatar,
		doctor.Comment,
		doctor.ID,
	)
	return expectOne(res, err, "doctor")
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	return expectOne(res, err, "doctor")
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}
	query := `SELECT ` + doctorColumns + ` FROM doctors ORDER BY name, specialization`
	if err := sqlx.SelectContext(ctx, r.db, &doctors, query); err != nil {
		return nil, translate(err, "doctor")
	}
	return doctors, nil
}

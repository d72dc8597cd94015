package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

const resultColumns = `id, patient_id, date, medical_test, test_result, units, reference_value`

type resultRepository struct {
	db sqlx.ExtContext
}

func (r *resultRepository) Create(ctx context.Context, result *model.Result) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO results (`+resultColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID,
		result.PatientID,
		result.Date,
		result.MedicalTest,
		result.TestResult,
		result.Units,
		result.ReferenceValue,
	)
	return translate(err, "result")
}

func (r *resultRepository) Get(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	var result model.Result
	if err := sqlx.GetContext(ctx, r.db, &result, `SELECT `+resultColumns+` FROM results WHERE id = $1`, id); err != nil {
		return nil, translate(err, "result")
	}
	return &result, nil
}

// Update leaves the patient and the recorded date untouched.
func (r *resultRepository) Update(ctx context.Context, result *model.Result) error {
	query := `
		UPDATE results
		SET medical_test = $1, test_result = $2, units = $3, reference_value = $4
		WHERE id = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		result.MedicalTest,
		result.TestResult,
		result.Units,
		result.ReferenceValue,
		result.ID,
	)
	return expectOne(res, err, "result")
}

func (r *resultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	return expectOne(res, err, "result")
}

func (r *resultRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Result, error) {
	results := []*model.Result{}
	query := `SELECT ` + resultColumns + ` FROM results WHERE patient_id = $1 ORDER BY date DESC, medical_test`
	if err := sqlx.SelectContext(ctx, r.db, &results, query, patientID); err != nil {
		return nil, translate(err, "result")
	}
	return results, nil
}

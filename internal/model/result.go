package model

import "github.com/google/uuid"

// Result is the outcome of a diagnostic test taken by a patient.
type Result struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	Date           Date      `db:"date" json:"date"`
	MedicalTest    string    `db:"medical_test" json:"medical_test"`
	TestResult     string    `db:"test_result" json:"test_result"`
	Units          string    `db:"units" json:"units"`
	ReferenceValue string    `db:"reference_value" json:"reference_value"`
}

type CreateResultRequest struct {
	PatientID      uuid.UUID `json:"patient_id" validate:"required"`
	MedicalTest    string    `json:"medical_test" validate:"required,max=200"`
	TestResult     string    `json:"test_result" validate:"required,max=150"`
	Units          string    `json:"units" validate:"max=100"`
	ReferenceValue string    `json:"reference_value" validate:"max=100"`
}

type UpdateResultRequest struct {
	MedicalTest    *string `json:"medical_test" validate:"omitempty,max=200"`
	TestResult     *string `json:"test_result" validate:"omitempty,max=150"`
	Units          *string `json:"units" validate:"omitempty,max=100"`
	ReferenceValue *string `json:"reference_value" validate:"omitempty,max=100"`
}

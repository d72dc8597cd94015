package result

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/access"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

// Service manages diagnostic results. Access follows the patient: whoever
// sees a patient sees and edits its results.
type Service struct {
	store     repository.Store
	policy    *access.Policy
	validator validator.Validator
	today     func() model.Date
}

func NewService(store repository.Store, policy *access.Policy, v validator.Validator) *Service {
	return &Service{store: store, policy: policy, validator: v, today: model.Today}
}

func (s *Service) patient(ctx context.Context, acc *model.Account, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanViewPatient(acc, patient) {
		return nil, errors.Forbidden("access patient results")
	}
	return patient, nil
}

// CreateResult records a result dated today.
func (s *Service) CreateResult(ctx context.Context, acc *model.Account, req *model.CreateResultRequest) (*model.Result, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.patient(ctx, acc, req.PatientID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Validation(map[string]string{"patient_id": "select a valid choice"})
		}
		return nil, err
	}

	result := &model.Result{
		PatientID:      req.PatientID,
		Date:           s.today(),
		MedicalTest:    req.MedicalTest,
		TestResult:     req.TestResult,
		Units:          req.Units,
		ReferenceValue: req.ReferenceValue,
	}
	if err := s.store.Results().Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create result: %w", err)
	}
	return result, nil
}

func (s *Service) GetResult(ctx context.Context, acc *model.Account, id uuid.UUID) (*model.Result, error) {
	result, err := s.store.Results().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.patient(ctx, acc, result.PatientID); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) ListResults(ctx context.Context, acc *model.Account, patientID uuid.UUID) ([]*model.Result, error) {
	if _, err := s.patient(ctx, acc, patientID); err != nil {
		return nil, err
	}
	return s.store.Results().ListByPatient(ctx, patientID)
}

func (s *Service) UpdateResult(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdateResultRequest) (*model.Result, error) {
	result, err := s.GetResult(ctx, acc, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.MedicalTest != nil {
		result.MedicalTest = *req.MedicalTest
	}
	if req.TestResult != nil {
		result.TestResult = *req.TestResult
	}
	if req.Units != nil {
		result.Units = *req.Units
	}
	if req.ReferenceValue != nil {
		result.ReferenceValue = *req.ReferenceValue
	}

	fields := map[string]string{}
	if result.MedicalTest == "" {
		fields["medical_test"] = "this field is required"
	}
	if result.TestResult == "" {
		fields["test_result"] = "this field is required"
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields)
	}

	if err := s.store.Results().Update(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to update result: %w", err)
	}
	return result, nil
}

func (s *Service) DeleteResult(ctx context.Context, acc *model.Account, id uuid.UUID) error {
	if _, err := s.GetResult(ctx, acc, id); err != nil {
		return err
	}
	return s.store.Results().Delete(ctx, id)
}

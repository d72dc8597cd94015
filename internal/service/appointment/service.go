package appointment

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

type Service struct {
	store     repository.Store
	policy    *access.Policy
	validator validator.Validator
}

func NewService(store repository.Store, policy *access.Policy, v validator.Validator) *Service {
	return &Service{store: store, policy: policy, validator: v}
}

// CreateAppointment books an appointment owned by acc for a patient acc can see.
func (s *Service) CreateAppointment(ctx context.Context, acc *model.Account, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, acc, req.PatientID, req.DoctorID); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		OwnerID:     acc.ID,
		AppointDate: req.AppointDate,
	}
	if err := s.store.Appointments().Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, acc *model.Account, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.store.Appointments().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanManageAppointment(acc, appointment) {
		return nil, errors.Forbidden("view appointment")
	}
	return appointment, nil
}

// ListAppointments returns every appointment to privileged callers and
// only their own to everyone else.
func (s *Service) ListAppointments(ctx context.Context, acc *model.Account, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters == nil {
		filters = &model.AppointmentFilters{}
	}
	if !s.policy.CanViewAll(acc) {
		id := acc.ID
		filters.OwnerID = &id
	}
	return s.store.Appointments().List(ctx, filters)
}

func (s *Service) UpdateAppointment(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.GetAppointment(ctx, acc, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.PatientID != nil {
		appointment.PatientID = *req.PatientID
	}
	if req.DoctorID != nil {
		appointment.DoctorID = *req.DoctorID
	}
	if req.AppointDate != nil {
		appointment.AppointDate = req.AppointDate
	}
	if err := s.checkRefs(ctx, acc, appointment.PatientID, appointment.DoctorID); err != nil {
		return nil, err
	}

	if err := s.store.Appointments().Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, acc *model.Account, id uuid.UUID) error {
	if _, err := s.GetAppointment(ctx, acc, id); err != nil {
		return err
	}
	return s.store.Appointments().Delete(ctx, id)
}

func (s *Service) checkRefs(ctx context.Context, acc *model.Account, patientID, doctorID uuid.UUID) error {
	fields := map[string]string{}

	patient, err := s.store.Patients().Get(ctx, patientID)
	switch {
	case errors.IsNotFound(err):
		fields["patient_id"] = "select a valid choice"
	case err != nil:
		return err
	case !s.policy.CanViewPatient(acc, patient):
		return errors.Forbidden("book appointment for patient")
	}

	if _, err := s.store.Doctors().Get(ctx, doctorID); err != nil {
		if !errors.IsNotFound(err) {
			return err
		}
		fields["doctor_id"] = "select a valid choice"
	}

	if len(fields) > 0 {
		return errors.Validation(fields)
	}
	return nil
}

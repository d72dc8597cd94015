package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/access"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

const (
	msgRequired      = "this field is required"
	msgInvalidChoice = "select a valid choice"
)

type PatientService interface {
	CreatePatient(ctx context.Context, acc *model.Account, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, acc *model.Account, id uuid.UUID) (*model.Patient, error)
	ListPatients(ctx context.Context, acc *model.Account, ownerID *uuid.UUID) ([]*model.Patient, error)
	UpdatePatient(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	UpdateWithAppointments(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.PatientAppointmentsRequest) (*model.PatientAppointmentsResponse, error)
	DeletePatient(ctx context.Context, acc *model.Account, id uuid.UUID) error
	EditForm(ctx context.Context, acc *model.Account, id uuid.UUID) (access.PatientForm, error)
}

type Service struct {
	store     repository.Store
	policy    *access.Policy
	validator validator.Validator
	logger    zerolog.Logger
}

func NewService(store repository.Store, policy *access.Policy, v validator.Validator, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		policy:    policy,
		validator: v,
		logger:    logger.With().Str("service", "patient").Logger(),
	}
}

var _ PatientService = (*Service)(nil)

// CreatePatient stores a new patient owned by acc.
func (s *Service) CreatePatient(ctx context.Context, acc *model.Account, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if acc == nil || acc.ID == uuid.Nil {
		return nil, errors.Validation(map[string]string{"owner": msgRequired})
	}

	patient := &model.Patient{
		FirstName:  strings.TrimSpace(req.FirstName),
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   strings.TrimSpace(req.LastName),
		Phone:      req.Phone,
		Address:    req.Address,
		Email:      req.Email,
		BirthDate:  req.BirthDate,
		Photo:      req.Photo,
		OwnerID:    acc.ID,
	}
	if fields := requireNames(patient, ""); len(fields) > 0 {
		return nil, errors.Validation(fields)
	}

	if err := s.store.Patients().Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, acc *model.Account, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanViewPatient(acc, patient) {
		return nil, errors.Forbidden("view patient")
	}
	return patient, nil
}

// ListPatients returns the patients visible to acc. Callers who see every
// patient may narrow the list to one owner.
func (s *Service) ListPatients(ctx context.Context, acc *model.Account, ownerID *uuid.UUID) ([]*model.Patient, error) {
	filters := s.policy.OwnerScope(acc)
	if filters.OwnerID == nil && ownerID != nil {
		filters.OwnerID = ownerID
	}
	return s.store.Patients().List(ctx, filters)
}

// EditForm reports which form acc edits the patient with.
func (s *Service) EditForm(ctx context.Context, acc *model.Account, id uuid.UUID) (access.PatientForm, error) {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.policy.SelectPatientEditForm(acc, patient)
}

func (s *Service) UpdatePatient(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form, err := s.policy.SelectPatientEditForm(acc, patient)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	form.Apply(patient, req)
	if fields := requireNames(patient, ""); len(fields) > 0 {
		return nil, errors.Validation(fields)
	}

	if err := s.store.Patients().Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

// UpdateWithAppointments applies a patient edit together with up to
// model.AppointmentSlots appointment slots. Either everything is saved or
// nothing is; validation errors are keyed "patient.<field>" and
// "appointments[i].<field>".
func (s *Service) UpdateWithAppointments(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.PatientAppointmentsRequest) (*model.PatientAppointmentsResponse, error) {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form, err := s.policy.SelectPatientEditForm(acc, patient)
	if err != nil {
		return nil, err
	}

	if len(req.Appointments) > model.AppointmentSlots {
		return nil, errors.Validation(map[string]string{
			"appointments": fmt.Sprintf("submit at most %d appointments", model.AppointmentSlots),
		})
	}

	fields := map[string]string{}
	if err := s.validator.Validate(req); err != nil {
		appErr, ok := errors.As(err)
		if !ok || appErr.Fields == nil {
			return nil, err
		}
		for k, v := range appErr.Fields {
			fields[k] = v
		}
	}

	form.Apply(patient, &req.Patient)
	for k, v := range requireNames(patient, "patient.") {
		fields[k] = v
	}
	if err := s.checkSlots(ctx, patient.ID, req.Appointments, fields); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields)
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Patients().Update(ctx, patient); err != nil {
			return fmt.Errorf("failed to update patient: %w", err)
		}
		for i, slot := range req.Appointments {
			if slot.IsEmpty() {
				continue
			}
			if err := saveSlot(ctx, tx, acc, patient.ID, slot); err != nil {
				return fmt.Errorf("failed to save appointment %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appointments, err := s.store.Appointments().List(ctx, &model.AppointmentFilters{PatientID: &patient.ID})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("patient_id", patient.ID.String()).
		Str("account_id", acc.ID.String()).
		Str("form", form.String()).
		Msg("patient and appointments updated")

	return &model.PatientAppointmentsResponse{Patient: patient, Appointments: appointments}, nil
}

// checkSlots validates every non-empty slot and records problems in fields.
func (s *Service) checkSlots(ctx context.Context, patientID uuid.UUID, slots []model.AppointmentSlot, fields map[string]string) error {
	seen := make(map[uuid.UUID]int, len(slots))
	for i, slot := range slots {
		if slot.IsEmpty() {
			continue
		}
		prefix := fmt.Sprintf("appointments[%d].", i)

		if slot.ID != nil {
			if first, dup := seen[*slot.ID]; dup {
				fields[prefix+"id"] = fmt.Sprintf("appointment already edited in slot %d", first)
			} else {
				seen[*slot.ID] = i
				existing, err := s.store.Appointments().Get(ctx, *slot.ID)
				switch {
				case errors.IsNotFound(err):
					fields[prefix+"id"] = msgInvalidChoice
				case err != nil:
					return err
				case existing.PatientID != patientID:
					fields[prefix+"id"] = "appointment belongs to another patient"
				}
			}
		}

		if slot.DoctorID == nil {
			fields[prefix+"doctor_id"] = msgRequired
			continue
		}
		if _, err := s.store.Doctors().Get(ctx, *slot.DoctorID); err != nil {
			if !errors.IsNotFound(err) {
				return err
			}
			fields[prefix+"doctor_id"] = msgInvalidChoice
		}
	}
	return nil
}

func saveSlot(ctx context.Context, tx repository.Store, acc *model.Account, patientID uuid.UUID, slot model.AppointmentSlot) error {
	if slot.ID == nil {
		return tx.Appointments().Create(ctx, &model.Appointment{
			PatientID:   patientID,
			DoctorID:    *slot.DoctorID,
			OwnerID:     acc.ID,
			AppointDate: slot.AppointDate,
		})
	}

	appointment, err := tx.Appointments().Get(ctx, *slot.ID)
	if err != nil {
		return err
	}
	appointment.PatientID = patientID
	appointment.DoctorID = *slot.DoctorID
	appointment.AppointDate = slot.AppointDate
	return tx.Appointments().Update(ctx, appointment)
}

// DeletePatient removes the patient with its appointments and results.
// Only the owner or a superuser may delete.
func (s *Service) DeletePatient(ctx context.Context, acc *model.Account, id uuid.UUID) error {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanDeletePatient(acc, patient) {
		return errors.Forbidden("delete patient")
	}
	if err := s.store.Patients().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	s.logger.Info().
		Str("patient_id", id.String()).
		Str("account_id", acc.ID.String()).
		Msg("patient deleted")
	return nil
}

// requireNames enforces non-blank first and last names after an edit.
func requireNames(p *model.Patient, prefix string) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(p.FirstName) == "" {
		fields[prefix+"first_name"] = msgRequired
	}
	if strings.TrimSpace(p.LastName) == "" {
		fields[prefix+"last_name"] = msgRequired
	}
	return fields
}

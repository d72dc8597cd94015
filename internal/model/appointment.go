package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentSlots is the number of appointment sub-forms offered by the
// composite patient edit.
const AppointmentSlots = 3

type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID    uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	OwnerID     uuid.UUID  `db:"owner_id" json:"owner_id"`
	AppointDate *time.Time `db:"appoint_date" json:"appoint_date"`
}

type CreateAppointmentRequest struct {
	PatientID   uuid.UUID  `json:"patient_id" validate:"required"`
	DoctorID    uuid.UUID  `json:"doctor_id" validate:"required"`
	AppointDate *time.Time `json:"appoint_date"`
}

type UpdateAppointmentRequest struct {
	PatientID   *uuid.UUID `json:"patient_id"`
	DoctorID    *uuid.UUID `json:"doctor_id"`
	AppointDate *time.Time `json:"appoint_date"`
}

type AppointmentFilters struct {
	OwnerID   *uuid.UUID
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

// AppointmentSlot is one appointment sub-form of a composite patient edit.
// A slot with ID updates that appointment; without ID it creates one.
type AppointmentSlot struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	DoctorID    *uuid.UUID `json:"doctor_id,omitempty"`
	AppointDate *time.Time `json:"appoint_date,omitempty"`
}

// IsEmpty reports an untouched slot, which is skipped on save.
func (s AppointmentSlot) IsEmpty() bool {
	return s.ID == nil && s.DoctorID == nil && s.AppointDate == nil
}

type PatientAppointmentsRequest struct {
	Patient      UpdatePatientRequest `json:"patient"`
	Appointments []AppointmentSlot    `json:"appointments"`
}

type PatientAppointmentsResponse struct {
	Patient      *Patient       `json:"patient"`
	Appointments []*Appointment `json:"appointments"`
}

// PadSlots returns exactly AppointmentSlots slots, keeping the submitted
// ones in order and filling the rest with empty slots.
func PadSlots(slots []AppointmentSlot) []AppointmentSlot {
	out := make([]AppointmentSlot, AppointmentSlots)
	copy(out, slots)
	return out
}

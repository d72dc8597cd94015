package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

type appointmentRepository struct {
	st *state
}

func checkAppointmentRefs(d *data, a *model.Appointment) error {
	if _, ok := d.patients[a.PatientID]; !ok {
		return errors.BadRequest("patient does not exist", nil)
	}
	if _, ok := d.doctors[a.DoctorID]; !ok {
		return errors.BadRequest("doctor does not exist", nil)
	}
	if _, ok := d.accounts[a.OwnerID]; !ok {
		return errors.BadRequest("owner does not exist", nil)
	}
	return nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	return r.st.write(func(d *data) error {
		if err := checkAppointmentRefs(d, appointment); err != nil {
			return err
		}
		if appointment.ID == uuid.Nil {
			appointment.ID = uuid.New()
		}
		d.appointments[appointment.ID] = *appointment
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var (
		a  model.Appointment
		ok bool
	)
	r.st.read(func(d *data) { a, ok = d.appointments[id] })
	if !ok {
		return nil, errors.NotFound("appointment", nil)
	}
	return &a, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	return r.st.write(func(d *data) error {
		existing, ok := d.appointments[appointment.ID]
		if !ok {
			return errors.NotFound("appointment", nil)
		}
		appointment.OwnerID = existing.OwnerID
		if err := checkAppointmentRefs(d, appointment); err != nil {
			return err
		}
		d.appointments[appointment.ID] = *appointment
		return nil
	})
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.appointments[id]; !ok {
			return errors.NotFound("appointment", nil)
		}
		delete(d.appointments, id)
		return nil
	})
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	r.st.read(func(d *data) {
		for _, a := range d.appointments {
			if !matchAppointment(&a, filters) {
				continue
			}
			a := a
			out = append(out, &a)
		}
	})
	sort.Slice(out, func(i, j int) bool { return appointmentBefore(out[i], out[j]) })
	return out, nil
}

func matchAppointment(a *model.Appointment, f *model.AppointmentFilters) bool {
	if f == nil {
		return true
	}
	if f.OwnerID != nil && a.OwnerID != *f.OwnerID {
		return false
	}
	if f.PatientID != nil && a.PatientID != *f.PatientID {
		return false
	}
	if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
		return false
	}
	return true
}

// appointmentBefore orders newest date first with undated appointments last.
func appointmentBefore(a, b *model.Appointment) bool {
	switch {
	case a.AppointDate == nil && b.AppointDate == nil:
		return a.ID.String() < b.ID.String()
	case a.AppointDate == nil:
		return false
	case b.AppointDate == nil:
		return true
	case !a.AppointDate.Equal(*b.AppointDate):
		return a.AppointDate.After(*b.AppointDate)
	default:
		return a.ID.String() < b.ID.String()
	}
}

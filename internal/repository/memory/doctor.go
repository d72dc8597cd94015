package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

type doctorRepository struct {
	st *state
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	return r.st.write(func(d *data) error {
		if doctor.ID == uuid.Nil {
			doctor.ID = uuid.New()
		}
		d.doctors[doctor.ID] = *doctor
		return nil
	})
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var (
		doc model.Doctor
		ok  bool
	)
	r.st.read(func(d *data) { doc, ok = d.doctors[id] })
	if !ok {
		return nil, errors.NotFound("doctor", nil)
	}
	return &doc, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.doctors[doctor.ID]; !ok {
			return errors.NotFound("doctor", nil)
		}
		d.doctors[doctor.ID] = *doctor
		return nil
	})
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.doctors[id]; !ok {
			return errors.NotFound("doctor", nil)
		}
		for aid, a := range d.appointments {
			if a.DoctorID == id {
				delete(d.appointments, aid)
			}
		}
		delete(d.doctors, id)
		return nil
	})
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	out := []*model.Doctor{}
	r.st.read(func(d *data) {
		for _, doc := range d.doctors {
			doc := doc
			out = append(out, &doc)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Specialization < out[j].Specialization
	})
	return out, nil
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

type patientRepository struct {
	st *state
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.accounts[patient.OwnerID]; !ok {
			return errors.BadRequest("owner does not exist", nil)
		}
		if patient.ID == uuid.Nil {
			patient.ID = uuid.New()
		}
		patient.CreatedAt = time.Now()
		d.patients[patient.ID] = *patient
		return nil
	})
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var (
		p  model.Patient
		ok bool
	)
	r.st.read(func(d *data) { p, ok = d.patients[id] })
	if !ok {
		return nil, errors.NotFound("patient", nil)
	}
	return &p, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return r.st.write(func(d *data) error {
		existing, ok := d.patients[patient.ID]
		if !ok {
			return errors.NotFound("patient", nil)
		}
		patient.OwnerID = existing.OwnerID
		patient.CreatedAt = existing.CreatedAt
		d.patients[patient.ID] = *patient
		return nil
	})
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.patients[id]; !ok {
			return errors.NotFound("patient", nil)
		}
		for aid, a := range d.appointments {
			if a.PatientID == id {
				delete(d.appointments, aid)
			}
		}
		for rid, res := range d.results {
			if res.PatientID == id {
				delete(d.results, rid)
			}
		}
		delete(d.patients, id)
		return nil
	})
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	out := []*model.Patient{}
	r.st.read(func(d *data) {
		for _, p := range d.patients {
			if filters != nil && filters.OwnerID != nil && p.OwnerID != *filters.OwnerID {
				continue
			}
			p := p
			out = append(out, &p)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

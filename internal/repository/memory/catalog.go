package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

type resultRepository struct {
	st *state
}

func (r *resultRepository) Create(ctx context.Context, result *model.Result) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.patients[result.PatientID]; !ok {
			return errors.BadRequest("patient does not exist", nil)
		}
		if result.ID == uuid.Nil {
			result.ID = uuid.New()
		}
		d.results[result.ID] = *result
		return nil
	})
}

func (r *resultRepository) Get(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	var (
		res model.Result
		ok  bool
	)
	r.st.read(func(d *data) { res, ok = d.results[id] })
	if !ok {
		return nil, errors.NotFound("result", nil)
	}
	return &res, nil
}

func (r *resultRepository) Update(ctx context.Context, result *model.Result) error {
	return r.st.write(func(d *data) error {
		existing, ok := d.results[result.ID]
		if !ok {
			return errors.NotFound("result", nil)
		}
		result.PatientID = existing.PatientID
		result.Date = existing.Date
		d.results[result.ID] = *result
		return nil
	})
}

func (r *resultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.results[id]; !ok {
			return errors.NotFound("result", nil)
		}
		delete(d.results, id)
		return nil
	})
}

func (r *resultRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Result, error) {
	out := []*model.Result{}
	r.st.read(func(d *data) {
		for _, res := range d.results {
			if res.PatientID == patientID {
				res := res
				out = append(out, &res)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].MedicalTest < out[j].MedicalTest
	})
	return out, nil
}

type serviceRepository struct {
	st *state
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	return r.st.write(func(d *data) error {
		if service.ID == uuid.Nil {
			service.ID = uuid.New()
		}
		d.services[service.ID] = *service
		return nil
	})
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var (
		s  model.Service
		ok bool
	)
	r.st.read(func(d *data) { s, ok = d.services[id] })
	if !ok {
		return nil, errors.NotFound("service", nil)
	}
	return &s, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.services[service.ID]; !ok {
			return errors.NotFound("service", nil)
		}
		d.services[service.ID] = *service
		return nil
	})
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.st.write(func(d *data) error {
		if _, ok := d.services[id]; !ok {
			return errors.NotFound("service", nil)
		}
		delete(d.services, id)
		return nil
	})
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	out := []*model.Service{}
	r.st.read(func(d *data) {
		for _, s := range d.services {
			s := s
			out = append(out, &s)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type contactRepository struct {
	st *state
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.st.write(func(d *data) error {
		if contact.ID == uuid.Nil {
			contact.ID = uuid.New()
		}
		contact.CreatedAt = time.Now()
		d.contacts[contact.ID] = *contact
		return nil
	})
}

func (r *contactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	out := []*model.Contact{}
	r.st.read(func(d *data) {
		for _, c := range d.contacts {
			c := c
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

type serviceRepository struct {
	db sqlx.ExtContext
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO services (id, name, description, price) VALUES ($1, $2, $3, $4)`,
		service.ID, service.Name, service.Description, service.Price,
	)
	return translate(err, "service")
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var service model.Service
	if err := sqlx.GetContext(ctx, r.db, &service, `SELECT id, name, description, price FROM services WHERE id = $1`, id); err != nil {
		return nil, translate(err, "service")
	}
	return &service, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET name = $1, description = $2, price = $3 WHERE id = $4`,
		service.Name, service.Description, service.Price, service.ID,
	)
	return expectOne(res, err, "service")
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	return expectOne(res, err, "service")
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	services := []*model.Service{}
	if err := sqlx.SelectContext(ctx, r.db, &services, `SELECT id, name, description, price FROM services ORDER BY name`); err != nil {
		return nil, translate(err, "service")
	}
	return services, nil
}

type contactRepository struct {
	db sqlx.ExtContext
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	contact.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, phone, message, created_at) VALUES ($1, $2, $3, $4, $5)`,
		contact.ID, contact.Name, contact.Phone, contact.Message, contact.CreatedAt,
	)
	return translate(err, "contact")
}

func (r *contactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	contacts := []*model.Contact{}
	query := `SELECT id, name, phone, message, created_at FROM contacts ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &contacts, query); err != nil {
		return nil, translate(err, "contact")
	}
	return contacts, nil
}

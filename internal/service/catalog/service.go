// Package catalog serves the public side of the clinic: the priced service
// list and the contact form.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

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
	logger    zerolog.Logger
}

func NewService(store repository.Store, policy *access.Policy, v validator.Validator, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		policy:    policy,
		validator: v,
		logger:    logger.With().Str("service", "catalog").Logger(),
	}
}

// validatePrice enforces the decimal(8,2) column: non-negative, at most
// two fraction digits, at most MaxPrice.
func validatePrice(price decimal.Decimal) string {
	switch {
	case price.IsNegative():
		return "ensure this value is greater than or equal to 0"
	case price.GreaterThan(model.MaxPrice):
		return fmt.Sprintf("ensure this value is less than or equal to %s", model.MaxPrice.StringFixed(2))
	case !price.Equal(price.Round(2)):
		return "ensure that there are no more than 2 decimal places"
	}
	return ""
}

func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	return s.store.Services().List(ctx)
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.store.Services().Get(ctx, id)
}

func (s *Service) CreateService(ctx context.Context, acc *model.Account, req *model.CreateServiceRequest) (*model.Service, error) {
	if !acc.HasPermission(model.PermEditService) {
		return nil, errors.Forbidden("create service")
	}
	fields := map[string]string{}
	if err := s.validator.Validate(req); err != nil {
		appErr, ok := errors.As(err)
		if !ok || appErr.Fields == nil {
			return nil, err
		}
		fields = appErr.Fields
	}
	if msg := validatePrice(req.Price); msg != "" {
		fields["price"] = msg
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields)
	}

	service := &model.Service{Name: req.Name, Description: req.Description, Price: req.Price}
	if err := s.store.Services().Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return service, nil
}

func (s *Service) UpdateService(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	if !acc.HasPermission(model.PermEditService) {
		return nil, errors.Forbidden("update service")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	service, err := s.store.Services().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}

	fields := map[string]string{}
	if service.Name == "" {
		fields["name"] = "this field is required"
	}
	if msg := validatePrice(service.Price); msg != "" {
		fields["price"] = msg
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields)
	}

	if err := s.store.Services().Update(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return service, nil
}

func (s *Service) DeleteService(ctx context.Context, acc *model.Account, id uuid.UUID) error {
	if !acc.HasPermission(model.PermEditService) {
		return errors.Forbidden("delete service")
	}
	return s.store.Services().Delete(ctx, id)
}

// SubmitContact stores a message from the public contact form.
func (s *Service) SubmitContact(ctx context.Context, req *model.CreateContactRequest) (*model.Contact, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	contact := &model.Contact{Name: req.Name, Phone: req.Phone, Message: req.Message}
	if err := s.store.Contacts().Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	s.logger.Info().Str("contact_id", contact.ID.String()).Msg("contact message received")
	return contact, nil
}

func (s *Service) ListContacts(ctx context.Context, acc *model.Account) ([]*model.Contact, error) {
	if !s.policy.CanViewAll(acc) {
		return nil, errors.Forbidden("list contact messages")
	}
	return s.store.Contacts().List(ctx)
}

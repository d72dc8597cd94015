package catalog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository/memory"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/access"
	apperrors "github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

var editor = &model.Account{Permissions: []string{model.PermEditService}}

func newService() *Service {
	return NewService(memory.NewStore(), access.NewPolicy("moderator"), validator.New(), zerolog.Nop())
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"0", true},
		{"1500.50", true},
		{"999999.99", true},
		{"1000000.00", false},
		{"-0.01", false},
		{"10.005", false},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			msg := validatePrice(decimal.RequireFromString(tt.price))
			assert.Equal(t, tt.ok, msg == "", msg)
		})
	}
}

func TestService_CreateService(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.CreateService(ctx, &model.Account{}, &model.CreateServiceRequest{Name: "MRI"})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = svc.CreateService(ctx, editor, &model.CreateServiceRequest{Price: decimal.RequireFromString("-5")})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "price")

	created, err := svc.CreateService(ctx, editor, &model.CreateServiceRequest{Name: "MRI", Price: decimal.RequireFromString("4500.00")})
	require.NoError(t, err)

	list, err := svc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestService_UpdateServicePrice(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	created, err := svc.CreateService(ctx, editor, &model.CreateServiceRequest{Name: "ECG", Price: decimal.RequireFromString("900")})
	require.NoError(t, err)

	tooPrecise := decimal.RequireFromString("12.345")
	_, err = svc.UpdateService(ctx, editor, created.ID, &model.UpdateServiceRequest{Price: &tooPrecise})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	price := decimal.RequireFromString("950.50")
	updated, err := svc.UpdateService(ctx, editor, created.ID, &model.UpdateServiceRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "950.50", updated.Price.StringFixed(2))
}

func TestService_Contacts(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.SubmitContact(ctx, &model.CreateContactRequest{Name: "Maria"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "phone")
	assert.Contains(t, appErr.Fields, "message")

	_, err = svc.SubmitContact(ctx, &model.CreateContactRequest{Name: "Maria", Phone: "+7 900 123-45-67", Message: "Call me back"})
	require.NoError(t, err)

	_, err = svc.ListContacts(ctx, &model.Account{})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	list, err := svc.ListContacts(ctx, &model.Account{Groups: []string{"moderator"}})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

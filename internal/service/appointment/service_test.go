package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository/memory"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/access"
	apperrors "github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

type testEnv struct {
	svc       *Service
	store     *memory.Store
	owner     *model.Account
	other     *model.Account
	moderator *model.Account
	patient   *model.Patient
	doctor    *model.Doctor
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	owner := &model.Account{Email: "owner@example.com", IsActive: true}
	other := &model.Account{Email: "other@example.com", IsActive: true}
	moderator := &model.Account{Email: "mod@example.com", IsActive: true, Groups: []string{"moderator"}}
	for _, a := range []*model.Account{owner, other, moderator} {
		require.NoError(t, store.Accounts().Create(ctx, a))
	}

	patient := &model.Patient{FirstName: "Ivan", LastName: "Petrov", OwnerID: owner.ID}
	require.NoError(t, store.Patients().Create(ctx, patient))
	doctor := &model.Doctor{Name: "Dr. Who", Specialization: "Surgery"}
	require.NoError(t, store.Doctors().Create(ctx, doctor))

	return &testEnv{
		svc:       NewService(store, access.NewPolicy("moderator"), validator.New()),
		store:     store,
		owner:     owner,
		other:     other,
		moderator: moderator,
		patient:   patient,
		doctor:    doctor,
	}
}

func TestService_CreateAppointment(t *testing.T) {
	env := setup(t)
	at := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	a, err := env.svc.CreateAppointment(context.Background(), env.owner, &model.CreateAppointmentRequest{
		PatientID: env.patient.ID, DoctorID: env.doctor.ID, AppointDate: &at,
	})
	require.NoError(t, err)
	assert.Equal(t, env.owner.ID, a.OwnerID)
}

func TestService_CreateAppointmentForInvisiblePatient(t *testing.T) {
	env := setup(t)

	_, err := env.svc.CreateAppointment(context.Background(), env.other, &model.CreateAppointmentRequest{
		PatientID: env.patient.ID, DoctorID: env.doctor.ID,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestService_CreateAppointmentUnknownRefs(t *testing.T) {
	env := setup(t)

	_, err := env.svc.CreateAppointment(context.Background(), env.owner, &model.CreateAppointmentRequest{
		PatientID: uuid.New(), DoctorID: uuid.New(),
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "patient_id")
	assert.Contains(t, appErr.Fields, "doctor_id")
}

func TestService_ListAppointmentsVisibility(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	_, err := env.svc.CreateAppointment(ctx, env.owner, &model.CreateAppointmentRequest{PatientID: env.patient.ID, DoctorID: env.doctor.ID})
	require.NoError(t, err)
	_, err = env.svc.CreateAppointment(ctx, env.moderator, &model.CreateAppointmentRequest{PatientID: env.patient.ID, DoctorID: env.doctor.ID})
	require.NoError(t, err)

	own, err := env.svc.ListAppointments(ctx, env.owner, nil)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	none, err := env.svc.ListAppointments(ctx, env.other, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := env.svc.ListAppointments(ctx, env.moderator, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byDoctor, err := env.svc.ListAppointments(ctx, env.moderator, &model.AppointmentFilters{DoctorID: &env.doctor.ID})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 2)
}

func TestService_UpdateAndDeleteAppointment(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	a, err := env.svc.CreateAppointment(ctx, env.owner, &model.CreateAppointmentRequest{PatientID: env.patient.ID, DoctorID: env.doctor.ID})
	require.NoError(t, err)

	_, err = env.svc.UpdateAppointment(ctx, env.other, a.ID, &model.UpdateAppointmentRequest{})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	at := time.Date(2024, 8, 2, 15, 0, 0, 0, time.UTC)
	updated, err := env.svc.UpdateAppointment(ctx, env.owner, a.ID, &model.UpdateAppointmentRequest{AppointDate: &at})
	require.NoError(t, err)
	assert.True(t, at.Equal(*updated.AppointDate))

	assert.True(t, apperrors.Is(env.svc.DeleteAppointment(ctx, env.other, a.ID), apperrors.ErrForbidden))
	require.NoError(t, env.svc.DeleteAppointment(ctx, env.owner, a.ID))

	_, err = env.svc.GetAppointment(ctx, env.owner, a.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

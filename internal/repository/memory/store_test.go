package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	apperrors "github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

type fixture struct {
	store   *Store
	owner   *model.Account
	patient *model.Patient
	doctor  *model.Doctor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := NewStore()

	owner := &model.Account{Email: "owner@example.com", IsActive: true}
	require.NoError(t, s.Accounts().Create(ctx, owner))

	patient := &model.Patient{FirstName: "Ivan", LastName: "Petrov", OwnerID: owner.ID}
	require.NoError(t, s.Patients().Create(ctx, patient))

	doctor := &model.Doctor{Name: "Dr. House", Specialization: "Diagnostics"}
	require.NoError(t, s.Doctors().Create(ctx, doctor))

	return &fixture{store: s, owner: owner, patient: patient, doctor: doctor}
}

func (f *fixture) appointment(t *testing.T, at *time.Time) *model.Appointment {
	t.Helper()
	a := &model.Appointment{PatientID: f.patient.ID, DoctorID: f.doctor.ID, OwnerID: f.owner.ID, AppointDate: at}
	require.NoError(t, f.store.Appointments().Create(context.Background(), a))
	return a
}

func TestAccountRepository_UniqueEmail(t *testing.T) {
	f := setup(t)

	err := f.store.Accounts().Create(context.Background(), &model.Account{Email: "OWNER@example.com"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestAccountRepository_GetByToken(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	token := "abc123"
	pending := &model.Account{Email: "new@example.com", Token: &token}
	require.NoError(t, s.Accounts().Create(ctx, pending))

	got, err := s.Accounts().GetByToken(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	_, err = s.Accounts().GetByToken(ctx, "")
	assert.True(t, apperrors.IsNotFound(err))

	got.IsActive = true
	require.NoError(t, s.Accounts().Update(ctx, got))
	_, err = s.Accounts().GetByToken(ctx, "abc123")
	assert.True(t, apperrors.IsNotFound(err), "active accounts are not matched by token")
}

func TestPatientRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.appointment(t, nil)
	f.appointment(t, nil)
	require.NoError(t, f.store.Results().Create(ctx, &model.Result{
		PatientID: f.patient.ID, Date: model.Today(), MedicalTest: "Glucose", TestResult: "5.1",
	}))

	require.NoError(t, f.store.Patients().Delete(ctx, f.patient.ID))

	appointments, err := f.store.Appointments().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, appointments)

	results, err := f.store.Results().ListByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = f.store.Patients().Get(ctx, f.patient.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDoctorRepository_DeleteCascadesAppointments(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.appointment(t, nil)

	require.NoError(t, f.store.Doctors().Delete(ctx, f.doctor.ID))

	appointments, err := f.store.Appointments().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, appointments)
}

func TestAppointmentRepository_ListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	undated := f.appointment(t, nil)
	first := f.appointment(t, &early)
	second := f.appointment(t, &late)

	list, err := f.store.Appointments().List(ctx, &model.AppointmentFilters{PatientID: &f.patient.ID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, undated.ID, list[2].ID)

	other := f.owner.ID
	other[0] ^= 0xff
	list, err = f.store.Appointments().List(ctx, &model.AppointmentFilters{OwnerID: &other})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAppointmentRepository_RejectsUnknownDoctor(t *testing.T) {
	f := setup(t)
	a := &model.Appointment{PatientID: f.patient.ID, DoctorID: f.patient.ID, OwnerID: f.owner.ID}

	err := f.store.Appointments().Create(context.Background(), a)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestStore_WithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	boom := errors.New("slot 3 invalid")

	err := f.store.WithTx(ctx, func(tx repository.Store) error {
		p, err := tx.Patients().Get(ctx, f.patient.ID)
		require.NoError(t, err)
		p.FirstName = "Changed"
		require.NoError(t, tx.Patients().Update(ctx, p))
		require.NoError(t, tx.Appointments().Create(ctx, &model.Appointment{
			PatientID: f.patient.ID, DoctorID: f.doctor.ID, OwnerID: f.owner.ID,
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := f.store.Patients().Get(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", p.FirstName)

	list, err := f.store.Appointments().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_WithTxCommits(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	err := f.store.WithTx(ctx, func(tx repository.Store) error {
		return tx.Appointments().Create(ctx, &model.Appointment{
			PatientID: f.patient.ID, DoctorID: f.doctor.ID, OwnerID: f.owner.ID,
		})
	})
	require.NoError(t, err)

	list, err := f.store.Appointments().List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDoctorRepository_ListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, d := range []model.Doctor{
		{Name: "Smith", Specialization: "Surgery"},
		{Name: "Adams", Specialization: "Therapy"},
		{Name: "Smith", Specialization: "Cardiology"},
	} {
		d := d
		require.NoError(t, s.Doctors().Create(ctx, &d))
	}

	list, err := s.Doctors().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Adams", list[0].Name)
	assert.Equal(t, "Cardiology", list[1].Specialization)
	assert.Equal(t, "Surgery", list[2].Specialization)
}

// openTx runs a transaction that applies write, then waits for release
// before committing. It returns once write has run.
func openTx(ctx context.Context, s *Store, write func(tx repository.Store) error) (release func(), done <-chan error) {
	entered := make(chan struct{})
	gate := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- s.WithTx(ctx, func(tx repository.Store) error {
			err := write(tx)
			close(entered)
			if err != nil {
				return err
			}
			<-gate
			return nil
		})
	}()
	<-entered
	return func() { close(gate) }, result
}

func TestStore_WithTxKeepsWritesCommittedMeanwhile(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	release, done := openTx(ctx, f.store, func(tx repository.Store) error {
		p, err := tx.Patients().Get(ctx, f.patient.ID)
		if err != nil {
			return err
		}
		p.FirstName = "Changed"
		return tx.Patients().Update(ctx, p)
	})

	late := &model.Account{Email: "late@example.com"}
	require.NoError(t, f.store.Accounts().Create(ctx, late))
	other := &model.Doctor{Name: "Dr. Kim", Specialization: "ENT"}
	require.NoError(t, f.store.Doctors().Create(ctx, other))

	release()
	require.NoError(t, <-done)

	_, err := f.store.Accounts().Get(ctx, late.ID)
	assert.NoError(t, err)
	_, err = f.store.Doctors().Get(ctx, other.ID)
	assert.NoError(t, err)
	p, err := f.store.Patients().Get(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", p.FirstName)
}

func TestStore_WithTxFailsWhenCommitNoLongerApplies(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	release, done := openTx(ctx, f.store, func(tx repository.Store) error {
		p, err := tx.Patients().Get(ctx, f.patient.ID)
		if err != nil {
			return err
		}
		p.FirstName = "Changed"
		if err := tx.Patients().Update(ctx, p); err != nil {
			return err
		}
		return tx.Appointments().Create(ctx, &model.Appointment{
			PatientID: f.patient.ID, DoctorID: f.doctor.ID, OwnerID: f.owner.ID,
		})
	})

	require.NoError(t, f.store.Doctors().Delete(ctx, f.doctor.ID))

	release()
	assert.Error(t, <-done)

	p, err := f.store.Patients().Get(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", p.FirstName)
	list, err := f.store.Appointments().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_WithTxDuplicateEmailCommittedMeanwhile(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	release, done := openTx(ctx, s, func(tx repository.Store) error {
		return tx.Accounts().Create(ctx, &model.Account{Email: "dup@example.com"})
	})
	require.NoError(t, s.Accounts().Create(ctx, &model.Account{Email: "dup@example.com"}))

	release()
	err := <-done
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	list, err := s.Accounts().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	apperrors "github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

func setupTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPatientRepository_Create(t *testing.T) {
	store, mock := setupTestStore(t)
	owner := uuid.New()
	patient := &model.Patient{FirstName: "Anna", LastName: "Ivanova", OwnerID: owner}

	mock.ExpectExec("INSERT INTO patients").
		WithArgs(sqlmock.AnyArg(), "Anna", "", "Ivanova", "", "", "", sqlmock.AnyArg(), "", owner, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Patients().Create(context.Background(), patient))
	assert.NotEqual(t, uuid.Nil, patient.ID)
	assert.False(t, patient.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_GetNotFound(t *testing.T) {
	store, mock := setupTestStore(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE id = \\$1").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Patients().Get(context.Background(), id)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_ListByOwner(t *testing.T) {
	store, mock := setupTestStore(t)
	owner := uuid.New()
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "first_name", "middle_name", "last_name", "phone", "address",
		"email", "birth_date", "photo", "owner_id", "created_at",
	}).
		AddRow(uuid.New().String(), "Anna", "", "Ivanova", "", "", "", time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), "", owner.String(), created).
		AddRow(uuid.New().String(), "Boris", "", "Sidorov", "", "", "", nil, "", owner.String(), created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE owner_id = $1 ORDER BY last_name")).
		WithArgs(owner).
		WillReturnRows(rows)

	patients, err := store.Patients().List(context.Background(), &model.PatientFilters{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, patients, 2)
	require.NotNil(t, patients[0].BirthDate)
	assert.Equal(t, "1990-05-01", patients[0].BirthDate.String())
	assert.Nil(t, patients[1].BirthDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_UpdateMissing(t *testing.T) {
	store, mock := setupTestStore(t)

	mock.ExpectExec("UPDATE patients").WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Patients().Update(context.Background(), &model.Patient{ID: uuid.New()})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountRepository_CreateDuplicateEmail(t *testing.T) {
	store, mock := setupTestStore(t)

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := store.Accounts().Create(context.Background(), &model.Account{Email: "a@example.com"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
}

func TestAccountRepository_GetByToken(t *testing.T) {
	store, mock := setupTestStore(t)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "phone", "avatar", "city",
		"is_active", "is_superuser", "groups", "permissions", "token", "created_at", "updated_at",
	}).AddRow(id.String(), "a@example.com", "hash", "", "", "", "", "", false, false, "{moderator}", "{}", "tok", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE token = $1 AND is_active = FALSE")).
		WithArgs("tok").
		WillReturnRows(rows)

	account, err := store.Accounts().GetByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.True(t, account.InGroup("moderator"))
	require.NotNil(t, account.Token)
	assert.Equal(t, "tok", *account.Token)
}

func TestAccountRepository_GetByEmptyTokenSkipsQuery(t *testing.T) {
	store, mock := setupTestStore(t)

	_, err := store.Accounts().GetByToken(context.Background(), "")
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_ListFilters(t *testing.T) {
	store, mock := setupTestStore(t)
	owner, patient := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_id = $1 AND patient_id = $2 ORDER BY appoint_date DESC NULLS LAST")).
		WithArgs(owner, patient).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "doctor_id", "owner_id", "appoint_date"}))

	list, err := store.Appointments().List(context.Background(), &model.AppointmentFilters{OwnerID: &owner, PatientID: &patient})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_CreateUnknownDoctor(t *testing.T) {
	store, mock := setupTestStore(t)

	mock.ExpectExec("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: "23503"})

	err := store.Appointments().Create(context.Background(), &model.Appointment{})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestServiceRepository_List(t *testing.T) {
	store, mock := setupTestStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price"}).
		AddRow(uuid.New().String(), "Blood test", "", "450.00")
	mock.ExpectQuery("SELECT id, name, description, price FROM services ORDER BY name").WillReturnRows(rows)

	services, err := store.Services().List(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.True(t, decimal.RequireFromString("450").Equal(services[0].Price))
}

func TestStore_WithTxRollsBackOnError(t *testing.T) {
	store, mock := setupTestStore(t)
	boom := errors.New("invalid slot")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE patients").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := store.WithTx(context.Background(), func(tx repository.Store) error {
		require.NoError(t, tx.Patients().Update(context.Background(), &model.Patient{ID: uuid.New()}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithTxCommits(t *testing.T) {
	store, mock := setupTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM results").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithTx(context.Background(), func(tx repository.Store) error {
		return tx.Results().Delete(context.Background(), uuid.New())
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// Store is the postgres repository.Store. Inside WithTx every repository
// runs on the same *sqlx.Tx.
type Store struct {
	db *sqlx.DB
	ex sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, ex: db}
}

func (s *Store) Accounts() repository.AccountRepository         { return &accountRepository{db: s.ex} }
func (s *Store) Patients() repository.PatientRepository         { return &patientRepository{db: s.ex} }
func (s *Store) Doctors() repository.DoctorRepository           { return &doctorRepository{db: s.ex} }
func (s *Store) Appointments() repository.AppointmentRepository { return &appointmentRepository{db: s.ex} }
func (s *Store) Results() repository.ResultRepository           { return &resultRepository{db: s.ex} }
func (s *Store) Services() repository.ServiceRepository         { return &serviceRepository{db: s.ex} }
func (s *Store) Contacts() repository.ContactRepository         { return &contactRepository{db: s.ex} }

// WithTx executes a function within a transaction. Calls made on a
// transactional Store join the running transaction.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, inTx := s.ex.(*sqlx.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{db: s.db, ex: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// translate maps driver errors onto application errors.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource, err)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return errors.Conflict(fmt.Sprintf("%s already exists", resource), nil)
		case foreignKeyViolation:
			return errors.BadRequest("referenced record does not exist", err)
		case checkViolation:
			return errors.BadRequest(fmt.Sprintf("invalid %s", resource), err)
		}
	}
	return fmt.Errorf("%s query failed: %w", resource, err)
}

// expectOne turns an UPDATE or DELETE that touched no rows into NotFound.
func expectOne(res sql.Result, err error, resource string) error {
	if err != nil {
		return translate(err, resource)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NotFound(resource, nil)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)

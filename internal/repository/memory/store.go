// Package memory is an in-process Store used in development mode and tests.
// It honours the same cascade and transaction rules as the postgres Store.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
)

type data struct {
	accounts     map[uuid.UUID]model.Account
	patients     map[uuid.UUID]model.Patient
	doctors      map[uuid.UUID]model.Doctor
	appointments map[uuid.UUID]model.Appointment
	results      map[uuid.UUID]model.Result
	services     map[uuid.UUID]model.Service
	contacts     map[uuid.UUID]model.Contact
}

func newData() *data {
	return &data{
		accounts:     make(map[uuid.UUID]model.Account),
		patients:     make(map[uuid.UUID]model.Patient),
		doctors:      make(map[uuid.UUID]model.Doctor),
		appointments: make(map[uuid.UUID]model.Appointment),
		results:      make(map[uuid.UUID]model.Result),
		services:     make(map[uuid.UUID]model.Service),
		contacts:     make(map[uuid.UUID]model.Contact),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.accounts {
		v.Groups = append(v.Groups[:0:0], v.Groups...)
		v.Permissions = append(v.Permissions[:0:0], v.Permissions...)
		c.accounts[k] = v
	}
	for k, v := range d.patients {
		c.patients[k] = v
	}
	for k, v := range d.doctors {
		c.doctors[k] = v
	}
	for k, v := range d.appointments {
		c.appointments[k] = v
	}
	for k, v := range d.results {
		c.results[k] = v
	}
	for k, v := range d.services {
		c.services[k] = v
	}
	for k, v := range d.contacts {
		c.contacts[k] = v
	}
	return c
}

type state struct {
	mu   sync.RWMutex
	data *data
	// journal records the successful writes of a transaction so they can be
	// replayed onto the live data at commit; nil outside a transaction.
	journal *[]func(d *data) error
}

// Store is a map-backed repository.Store.
type Store struct {
	st *state
	// txMu serialises transactions on the root store; nil inside a transaction.
	txMu *sync.Mutex
}

func NewStore() *Store {
	return &Store{st: &state{data: newData()}, txMu: &sync.Mutex{}}
}

func (s *Store) Accounts() repository.AccountRepository         { return &accountRepository{st: s.st} }
func (s *Store) Patients() repository.PatientRepository         { return &patientRepository{st: s.st} }
func (s *Store) Doctors() repository.DoctorRepository           { return &doctorRepository{st: s.st} }
func (s *Store) Appointments() repository.AppointmentRepository { return &appointmentRepository{st: s.st} }
func (s *Store) Results() repository.ResultRepository           { return &resultRepository{st: s.st} }
func (s *Store) Services() repository.ServiceRepository         { return &serviceRepository{st: s.st} }
func (s *Store) Contacts() repository.ContactRepository         { return &contactRepository{st: s.st} }

// WithTx runs fn against a private copy of the data. Reads inside fn see
// the copy plus fn's own writes. On success the writes are replayed, in
// order, onto the current data under the write lock; if any of them no
// longer applies (a conflicting write committed meanwhile) nothing is
// published and the error is returned. Nested calls join the enclosing
// transaction.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.txMu == nil {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.mu.RLock()
	working := s.st.data.clone()
	s.st.mu.RUnlock()

	var journal []func(d *data) error
	tx := &Store{st: &state{data: working, journal: &journal}}
	if err := fn(tx); err != nil {
		return err
	}
	if len(journal) == 0 {
		return nil
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	next := s.st.data.clone()
	for _, write := range journal {
		if err := write(next); err != nil {
			return err
		}
	}
	s.st.data = next
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *state) read(fn func(d *data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *state) write(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.data); err != nil {
		return err
	}
	if s.journal != nil {
		*s.journal = append(*s.journal, fn)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)

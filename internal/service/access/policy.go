// Package access holds the ownership and visibility rules shared by the
// patient, appointment and result services.
package access

import (
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

// PatientForm is the set of patient fields a caller may edit.
type PatientForm int

const (
	// FullPatientForm edits every patient field except the owner.
	FullPatientForm PatientForm = iota + 1
	// ModeratorPatientForm edits email, photo and birth date only.
	ModeratorPatientForm
)

var moderatorCapabilities = []string{
	model.PermEditPatientEmail,
	model.PermEditPatientPhoto,
	model.PermEditPatientBirthday,
}

func (f PatientForm) String() string {
	switch f {
	case FullPatientForm:
		return "full"
	case ModeratorPatientForm:
		return "moderator"
	default:
		return "unknown"
	}
}

// Fields lists the JSON names of the editable fields.
func (f PatientForm) Fields() []string {
	switch f {
	case FullPatientForm:
		return []string{"first_name", "middle_name", "last_name", "phone", "address", "email", "birth_date", "photo"}
	case ModeratorPatientForm:
		return []string{"email", "birth_date", "photo"}
	default:
		return nil
	}
}

// Apply copies the fields of req this form allows onto p. Fields outside
// the form are ignored.
func (f PatientForm) Apply(p *model.Patient, req *model.UpdatePatientRequest) {
	switch f {
	case FullPatientForm:
		if req.FirstName != nil {
			p.FirstName = *req.FirstName
		}
		if req.MiddleName != nil {
			p.MiddleName = *req.MiddleName
		}
		if req.LastName != nil {
			p.LastName = *req.LastName
		}
		if req.Phone != nil {
			p.Phone = *req.Phone
		}
		if req.Address != nil {
			p.Address = *req.Address
		}
		fallthrough
	case ModeratorPatientForm:
		if req.Email != nil {
			p.Email = *req.Email
		}
		if req.BirthDate != nil {
			p.BirthDate = req.BirthDate
		}
		if req.Photo != nil {
			p.Photo = *req.Photo
		}
	}
}

type Policy struct {
	moderatorGroup string
}

func NewPolicy(moderatorGroup string) *Policy {
	return &Policy{moderatorGroup: moderatorGroup}
}

// CanViewAll reports whether acc sees records owned by others.
func (p *Policy) CanViewAll(acc *model.Account) bool {
	return acc.IsSuperuser || acc.InGroup(p.moderatorGroup)
}

// CanViewPatient reports whether acc may read the patient and its records.
func (p *Policy) CanViewPatient(acc *model.Account, patient *model.Patient) bool {
	return patient.OwnerID == acc.ID || p.CanViewAll(acc)
}

// OwnerScope returns the owner filter for list queries: nil for callers who
// see everything, the caller's id otherwise.
func (p *Policy) OwnerScope(acc *model.Account) *model.PatientFilters {
	if p.CanViewAll(acc) {
		return &model.PatientFilters{}
	}
	id := acc.ID
	return &model.PatientFilters{OwnerID: &id}
}

func (p *Policy) CanDeletePatient(acc *model.Account, patient *model.Patient) bool {
	return acc.ID == patient.OwnerID || acc.IsSuperuser
}

// SelectPatientEditForm picks the form acc edits patient with. The owner
// gets the full form; a non-owner holding every moderator capability gets
// the restricted form; anyone else is refused.
func (p *Policy) SelectPatientEditForm(acc *model.Account, patient *model.Patient) (PatientForm, error) {
	if acc.ID == patient.OwnerID {
		return FullPatientForm, nil
	}
	if acc.HasPermissions(moderatorCapabilities...) {
		return ModeratorPatientForm, nil
	}
	return 0, errors.Forbidden("edit patient")
}

// CanManageAppointment covers update and delete of a single appointment.
func (p *Policy) CanManageAppointment(acc *model.Account, a *model.Appointment) bool {
	return a.OwnerID == acc.ID || p.CanViewAll(acc)
}

package appointment

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/handler/handlertest"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository/memory"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/access"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/appointment"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

func TestHandler_AppointmentLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner := &model.Account{Email: "owner@example.com", IsActive: true}
	other := &model.Account{Email: "other@example.com", IsActive: true}
	require.NoError(t, store.Accounts().Create(ctx, owner))
	require.NoError(t, store.Accounts().Create(ctx, other))
	doctor := &model.Doctor{Name: "Dr. Grey", Specialization: "Surgery"}
	require.NoError(t, store.Doctors().Create(ctx, doctor))
	patient := &model.Patient{FirstName: "Oleg", LastName: "Smirnov", OwnerID: owner.ID}
	require.NoError(t, store.Patients().Create(ctx, patient))

	h := NewHandler(appointment.NewService(store, access.NewPolicy("moderator"), validator.New()))
	asOwner := handlertest.Engine(owner, h.RegisterRoutes)
	asOther := handlertest.Engine(other, h.RegisterRoutes)

	w := handlertest.Do(t, asOwner, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_id": patient.ID, "doctor_id": uuid.New(),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, handlertest.Decode(t, w, nil).Errors, "doctor_id")

	w = handlertest.Do(t, asOther, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_id": patient.ID, "doctor_id": doctor.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = handlertest.Do(t, asOwner, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_id": patient.ID, "doctor_id": doctor.ID, "appoint_date": "2024-07-01T09:30:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Appointment
	handlertest.Decode(t, w, &created)
	assert.Equal(t, owner.ID, created.OwnerID)
	path := "/api/v1/appointments/" + created.ID.String()

	var list []*model.Appointment
	w = handlertest.Do(t, asOwner, http.MethodGet, "/api/v1/appointments?doctor_id="+doctor.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	handlertest.Decode(t, w, &list)
	assert.Len(t, list, 1)

	w = handlertest.Do(t, asOther, http.MethodGet, "/api/v1/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	handlertest.Decode(t, w, &list)
	assert.Empty(t, list)

	w = handlertest.Do(t, asOwner, http.MethodGet, "/api/v1/appointments?patient_id=oops", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = handlertest.Do(t, asOwner, http.MethodPut, path, map[string]interface{}{"appoint_date": "2024-07-02T11:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated model.Appointment
	handlertest.Decode(t, w, &updated)
	require.NotNil(t, updated.AppointDate)
	assert.Equal(t, 2, updated.AppointDate.Day())

	w = handlertest.Do(t, asOther, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = handlertest.Do(t, asOwner, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = handlertest.Do(t, asOwner, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondaralexcy/medical-diagnostic/internal/handler"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/patient"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/httputil"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.GET("/:id/edit", h.GetEditForm)
		patients.PUT("/:id", h.UpdatePatient)
		patients.PUT("/:id/appointments", h.UpdateWithAppointments)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

type editFormResponse struct {
	Form    string         `json:"form"`
	Fields  []string       `json:"fields"`
	Patient *model.Patient `json:"patient"`
	Slots   int            `json:"appointment_slots"`
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreatePatient(c.Request.Context(), handler.Account(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, p)
}

// ListPatients returns the caller's visible patients. Privileged callers
// may pass owner_id to narrow the list.
func (h *Handler) ListPatients(c *gin.Context) {
	ownerID, ok := handler.QueryUUID(c, "owner_id")
	if !ok {
		return
	}

	patients, err := h.service.ListPatients(c.Request.Context(), handler.Account(c), ownerID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), handler.Account(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

// GetEditForm tells the client which patient fields the caller may edit.
func (h *Handler) GetEditForm(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	acc := handler.Account(c)

	form, err := h.service.EditForm(ctx, acc, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	p, err := h.service.GetPatient(ctx, acc, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, &editFormResponse{
		Form:    form.String(),
		Fields:  form.Fields(),
		Patient: p,
		Slots:   model.AppointmentSlots,
	})
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdatePatient(c.Request.Context(), handler.Account(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

// UpdateWithAppointments saves a patient edit and its appointment slots
// together. A rejected submission is echoed back as the full set of slots.
func (h *Handler) UpdateWithAppointments(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.PatientAppointmentsRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateWithAppointments(c.Request.Context(), handler.Account(c), id, &req)
	if err != nil {
		if errors.Is(err, errors.ErrBadRequest) && len(req.Appointments) <= model.AppointmentSlots {
			httputil.RespondWithErrorData(c, err, gin.H{"appointments": model.PadSlots(req.Appointments)})
			return
		}
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, resp)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePatient(c.Request.Context(), handler.Account(c), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/handler"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/httputil"
)

type Service interface {
	CreateAppointment(ctx context.Context, acc *model.Account, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, acc *model.Account, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, acc *model.Account, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	UpdateAppointment(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, acc *model.Account, id uuid.UUID) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), handler.Account(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	patientID, ok := handler.QueryUUID(c, "patient_id")
	if !ok {
		return
	}
	doctorID, ok := handler.QueryUUID(c, "doctor_id")
	if !ok {
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), handler.Account(c), &model.AppointmentFilters{
		PatientID: patientID,
		DoctorID:  doctorID,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), handler.Account(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointment)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	appointment, err := h.service.UpdateAppointment(c.Request.Context(), handler.Account(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointment)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), handler.Account(c), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

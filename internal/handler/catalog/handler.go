package catalog

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
	ListServices(ctx context.Context) ([]*model.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
	CreateService(ctx context.Context, acc *model.Account, req *model.CreateServiceRequest) (*model.Service, error)
	UpdateService(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error)
	DeleteService(ctx context.Context, acc *model.Account, id uuid.UUID) error
	SubmitContact(ctx context.Context, req *model.CreateContactRequest) (*model.Contact, error)
	ListContacts(ctx context.Context, acc *model.Account) ([]*model.Contact, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}
	r.POST("/contacts", h.SubmitContact)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.POST("", h.CreateService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
	}
	r.GET("/contacts", h.ListContacts)
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, services)
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	service, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, service)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	service, err := h.service.CreateService(c.Request.Context(), handler.Account(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, service)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateServiceRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	service, err := h.service.UpdateService(c.Request.Context(), handler.Account(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, service)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteService(c.Request.Context(), handler.Account(c), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var req model.CreateContactRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	contact, err := h.service.SubmitContact(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, &httputil.Response{
		Status:  "success",
		Message: "thank you, we will call you back",
		Data:    contact,
	})
}

func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.service.ListContacts(c.Request.Context(), handler.Account(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, contacts)
}
